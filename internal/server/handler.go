package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/trobanga/medboard/internal/dashboard"
	"github.com/trobanga/medboard/internal/export"
	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/models"
	"github.com/trobanga/medboard/internal/store"
)

// Handler exposes the store over JSON
type Handler struct {
	store *store.Store
	now   func() time.Time
}

// NewHandler creates a handler over st, using now for ages and default admission dates
func NewHandler(st *store.Store, now func() time.Time) *Handler {
	return &Handler{store: st, now: now}
}

// PatientList is the body of GET /patients
type PatientList struct {
	Patients []models.Patient `json:"patients"`
	Showing  int              `json:"showing"`
	Total    int              `json:"total"`
}

// StateView is the state without the collection
type StateView struct {
	Phase            models.Phase `json:"phase"`
	Loading          bool         `json:"loading"`
	Error            string       `json:"error,omitempty"`
	SearchTerm       string       `json:"searchTerm"`
	FilterDepartment string       `json:"filterDepartment"`
	FilterStatus     string       `json:"filterStatus"`
	FetchID          string       `json:"fetchId,omitempty"`
	Patients         int          `json:"patients"`
}

// FilterUpdate is the body of PUT /filters. Omitted fields are left as they are.
type FilterUpdate struct {
	SearchTerm       *string `json:"searchTerm"`
	FilterDepartment *string `json:"filterDepartment"`
	FilterStatus     *string `json:"filterStatus"`
}

// RegisterRoutes mounts every endpoint on api
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id", h.GetPatient)
	api.POST("/patients", h.CreatePatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)

	api.GET("/dashboard", h.Dashboard)
	api.GET("/state", h.State)
	api.PUT("/filters", h.SetFilters)
	api.POST("/fetch", h.Fetch)
	api.GET("/export.xlsx", h.Export)
}

// ListPatients returns the filtered table. The search, department and status
// query parameters override the stored filters for this request only.
func (h *Handler) ListPatients(c echo.Context) error {
	state := h.store.Snapshot()
	criteria := criteriaFor(c, state)
	filtered := criteria.Filter(state.Patients)

	return c.JSON(http.StatusOK, PatientList{
		Patients: filtered,
		Showing:  len(filtered),
		Total:    len(state.Patients),
	})
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	p, ok := h.store.Get(id)
	if !ok {
		return notFound(id)
	}
	return c.JSON(http.StatusOK, p)
}

// CreatePatient adds a patient; the id in the body is ignored
func (h *Handler) CreatePatient(c echo.Context) error {
	var p models.Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if p.AdmissionDate == "" {
		p.AdmissionDate = h.now().UTC().Format("2006-01-02")
	}
	if err := p.Validate(); err != nil {
		return invalid(err)
	}

	p.ID = h.store.Add(p)
	return c.JSON(http.StatusCreated, p)
}

// UpdatePatient replaces the whole record with the given id
func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	var p models.Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := p.Validate(); err != nil {
		return invalid(err)
	}

	if !h.store.Update(p) {
		return notFound(id)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}
	if !h.store.Remove(id) {
		return notFound(id)
	}
	return c.NoContent(http.StatusNoContent)
}

// Dashboard returns headline stats and every chart series
func (h *Handler) Dashboard(c echo.Context) error {
	state := h.store.Snapshot()
	return c.JSON(http.StatusOK, dashboard.Summarize(state.Patients, h.now().Year()))
}

func (h *Handler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, viewOf(h.store.Snapshot()))
}

// SetFilters updates the stored search and filters
func (h *Handler) SetFilters(c echo.Context) error {
	var update FilterUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if update.SearchTerm != nil {
		h.store.SetSearchTerm(*update.SearchTerm)
	}
	if update.FilterDepartment != nil {
		h.store.SetDepartmentFilter(*update.FilterDepartment)
	}
	if update.FilterStatus != nil {
		h.store.SetStatusFilter(*update.FilterStatus)
	}
	return c.JSON(http.StatusOK, viewOf(h.store.Snapshot()))
}

// Fetch clears the recorded error and reloads from upstream.
// A failed fetch answers 502 with the resulting state.
func (h *Handler) Fetch(c echo.Context) error {
	err := h.store.Retry(c.Request().Context())
	view := viewOf(h.store.Snapshot())
	if err != nil {
		return c.JSON(http.StatusBadGateway, view)
	}
	return c.JSON(http.StatusOK, view)
}

// Export downloads the filtered table and dashboard summary as xlsx
func (h *Handler) Export(c echo.Context) error {
	state := h.store.Snapshot()
	filtered := criteriaFor(c, state).Filter(state.Patients)

	data, err := export.GenerateWorkbook(filtered, dashboard.Summarize(filtered, h.now().Year()))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="patients.xlsx"`)
	return c.Blob(http.StatusOK, export.ContentType, data)
}

func criteriaFor(c echo.Context, state models.State) dashboard.Criteria {
	criteria := dashboard.CriteriaFromState(state)
	params := c.QueryParams()
	if params.Has("search") {
		criteria.SearchTerm = params.Get("search")
	}
	if params.Has("department") {
		criteria.Department = models.Department(params.Get("department"))
	}
	if params.Has("status") {
		criteria.Status = models.Status(params.Get("status"))
	}
	return criteria
}

func viewOf(state models.State) StateView {
	return StateView{
		Phase:            state.Phase,
		Loading:          state.Loading,
		Error:            state.Error,
		SearchTerm:       state.SearchTerm,
		FilterDepartment: state.FilterDepartment,
		FilterStatus:     state.FilterStatus,
		FetchID:          state.FetchID,
		Patients:         len(state.Patients),
	}
}

func patientID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func notFound(id int) error {
	return echo.NewHTTPError(http.StatusNotFound, lib.ErrPatientNotFound(id).Message)
}

func invalid(err error) error {
	appErr := lib.ErrInvalidPatient(err)
	return echo.NewHTTPError(http.StatusUnprocessableEntity, appErr.Error()).SetInternal(err)
}
