package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trobanga/medboard/internal/dashboard"
	"github.com/trobanga/medboard/internal/export"
	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/models"
	"github.com/trobanga/medboard/internal/store"
)

var testNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

type stubFetcher struct {
	results []error
	calls   int
}

func (f *stubFetcher) FetchPatients(ctx context.Context) ([]models.Patient, error) {
	err := f.results[f.calls]
	f.calls++
	if err != nil {
		return nil, err
	}
	return seedPatients(), nil
}

func (f *stubFetcher) Source() string { return "https://directory.test/users?limit=50" }

func seedPatients() []models.Patient {
	return []models.Patient{
		{ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", Phone: "555-0100", BirthDate: "1990-04-12",
			Gender: models.GenderFemale, AdmissionDate: "2024-03-01", Department: models.DepartmentICU, Status: models.StatusCritical},
		{ID: 2, FirstName: "John", LastName: "Roe", Email: "john@x.com", Phone: "555-0200", BirthDate: "2010-01-01",
			Gender: models.GenderMale, AdmissionDate: "2024-02-20", Department: models.DepartmentPediatrics, Status: models.StatusAdmitted},
		{ID: 3, FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Phone: "555-0300", BirthDate: "1960-07-07",
			Gender: models.GenderFemale, AdmissionDate: "2024-01-30", Department: models.DepartmentICU, Status: models.StatusDischarged},
	}
}

func quietLogger() *lib.Logger {
	return lib.NewLoggerWithWriter(lib.LogLevelError, &bytes.Buffer{})
}

// newLoadedServer returns a router over a store that already holds seedPatients
func newLoadedServer(t *testing.T, fetchResults ...error) (*echo.Echo, *store.Store) {
	t.Helper()
	results := append([]error{nil}, fetchResults...)
	st := store.New(&stubFetcher{results: results}, quietLogger())
	require.NoError(t, st.Fetch(context.Background()))
	return New(st, quietLogger(), func() time.Time { return testNow }), st
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const newPatientBody = `{"id":99,"firstName":"Dee","lastName":"Ray","email":"dee@x.com","phone":"555-0400",
	"birthDate":"1985-02-02","gender":"female","address":{"address":"2 Elm","city":"Salem","state":"Oregon","postalCode":"97301"},
	"department":"Neurology","status":"admitted","bloodGroup":"AB-"}`

func TestListPatients(t *testing.T) {
	e, _ := newLoadedServer(t)

	rec := do(e, http.MethodGet, "/api/patients", "")

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[PatientList](t, rec)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 3, list.Showing)
	assert.Len(t, list.Patients, 3)
}

func TestListPatients_QueryFilters(t *testing.T) {
	e, _ := newLoadedServer(t)

	rec := do(e, http.MethodGet, "/api/patients?department=ICU&search=ANN", "")

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[PatientList](t, rec)
	assert.Equal(t, 1, list.Showing)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, "Ann", list.Patients[0].FirstName)
}

func TestListPatients_StoredFiltersApply(t *testing.T) {
	e, st := newLoadedServer(t)
	st.SetStatusFilter(string(models.StatusCritical))

	list := decode[PatientList](t, do(e, http.MethodGet, "/api/patients", ""))
	assert.Equal(t, 1, list.Showing)

	list = decode[PatientList](t, do(e, http.MethodGet, "/api/patients?status=", ""))
	assert.Equal(t, 3, list.Showing, "an explicit empty parameter lifts the stored filter")
}

func TestGetPatient(t *testing.T) {
	_, st := newLoadedServer(t)
	h := NewHandler(st, func() time.Time { return testNow })
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("2")

	require.NoError(t, h.GetPatient(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "John", decode[models.Patient](t, rec).FirstName)
}

func TestGetPatient_InvalidID(t *testing.T) {
	e, _ := newLoadedServer(t)

	rec := do(e, http.MethodGet, "/api/patients/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePatient(t *testing.T) {
	e, st := newLoadedServer(t)

	rec := do(e, http.MethodPost, "/api/patients", newPatientBody)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Patient](t, rec)
	assert.Equal(t, 4, created.ID, "ids are assigned as max+1")
	assert.Equal(t, "2024-03-15", created.AdmissionDate, "defaults to today")

	stored, ok := st.Get(4)
	require.True(t, ok)
	assert.Equal(t, created, stored)
}

func TestCreatePatient_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"firstName":"A","lastName":"B","phone":"1","birthDate":"2000-01-01","gender":"male","department":"ICU","status":"admitted"}`},
		{"unknown department", strings.Replace(newPatientBody, "Neurology", "Oncology", 1)},
		{"unknown status", strings.Replace(newPatientBody, `"admitted"`, `"waiting"`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, st := newLoadedServer(t)

			rec := do(e, http.MethodPost, "/api/patients", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Len(t, st.Snapshot().Patients, 3)
		})
	}
}

func TestCreatePatient_MalformedJSON(t *testing.T) {
	e, _ := newLoadedServer(t)

	rec := do(e, http.MethodPost, "/api/patients", `{"firstName":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePatient(t *testing.T) {
	e, st := newLoadedServer(t)
	body := strings.Replace(newPatientBody, `"bloodGroup":"AB-"`, `"bloodGroup":"AB-","admissionDate":"2024-03-02"`, 1)

	rec := do(e, http.MethodPut, "/api/patients/2", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated, ok := st.Get(2)
	require.True(t, ok)
	assert.Equal(t, "Dee", updated.FirstName)
	assert.Equal(t, models.DepartmentNeurology, updated.Department)
	assert.Equal(t, 2, st.Snapshot().Patients[1].ID, "position is kept")
}

func TestUpdatePatient_NotFound(t *testing.T) {
	e, st := newLoadedServer(t)
	body := strings.Replace(newPatientBody, `"bloodGroup":"AB-"`, `"bloodGroup":"AB-","admissionDate":"2024-03-02"`, 1)

	rec := do(e, http.MethodPut, "/api/patients/42", body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Patient 42 not found")
	assert.Equal(t, seedPatients(), st.Snapshot().Patients)
}

func TestDeletePatient(t *testing.T) {
	e, st := newLoadedServer(t)

	rec := do(e, http.MethodDelete, "/api/patients/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, st.Snapshot().Patients, 2)

	rec = do(e, http.MethodDelete, "/api/patients/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboard(t *testing.T) {
	e, _ := newLoadedServer(t)

	rec := do(e, http.MethodGet, "/api/dashboard", "")

	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[dashboard.Summary](t, rec)
	assert.Equal(t, dashboard.StatusSummary{Total: 3, Admitted: 1, Critical: 1, Discharged: 1}, summary.Stats)
	assert.Equal(t, []dashboard.GenderCount{{Name: models.GenderMale, Value: 1}, {Name: models.GenderFemale, Value: 2}}, summary.Gender)
	assert.Equal(t, []dashboard.AgeGroupCount{
		{AgeGroup: dashboard.AgeGroupYoungAdult, Count: 1},
		{AgeGroup: dashboard.AgeGroupChild, Count: 1},
		{AgeGroup: dashboard.AgeGroupSenior, Count: 1},
	}, summary.AgeGroups)
	assert.Len(t, summary.Departments, 6)
}

func TestState(t *testing.T) {
	e, _ := newLoadedServer(t)

	view := decode[StateView](t, do(e, http.MethodGet, "/api/state", ""))

	assert.Equal(t, models.PhaseReady, view.Phase)
	assert.False(t, view.Loading)
	assert.Empty(t, view.Error)
	assert.Equal(t, 3, view.Patients)
	assert.NotEmpty(t, view.FetchID)
}

func TestSetFilters(t *testing.T) {
	e, st := newLoadedServer(t)
	st.SetSearchTerm("keep")

	rec := do(e, http.MethodPut, "/api/filters", `{"filterDepartment":"ICU","filterStatus":"critical"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[StateView](t, rec)
	assert.Equal(t, "keep", view.SearchTerm, "omitted fields are untouched")
	assert.Equal(t, "ICU", view.FilterDepartment)
	assert.Equal(t, "critical", view.FilterStatus)
}

func TestFetch_FailureThenRetry(t *testing.T) {
	e, st := newLoadedServer(t, lib.ErrServiceBadRequest("directory.test", 404, ""), nil)

	rec := do(e, http.MethodPost, "/api/fetch", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	view := decode[StateView](t, rec)
	assert.Equal(t, models.PhaseFailed, view.Phase)
	assert.Equal(t, "Failed to fetch patients", view.Error)
	assert.Equal(t, 3, view.Patients, "collection kept on failure")

	rec = do(e, http.MethodPost, "/api/fetch", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[StateView](t, rec)
	assert.Equal(t, models.PhaseReady, view.Phase)
	assert.Empty(t, view.Error)
	assert.Empty(t, st.Snapshot().Error)
}

func TestExport(t *testing.T) {
	e, _ := newLoadedServer(t)

	rec := do(e, http.MethodGet, "/api/export.xlsx?department=ICU", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "patients.xlsx")
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestHealth(t *testing.T) {
	e, _ := newLoadedServer(t)

	rec := do(e, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLogger_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestLogger(lib.NewLoggerWithWriter(lib.LogLevelDebug, &buf).Zerolog())(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	require.NoError(t, h(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "request", line["message"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
	assert.Equal(t, "/missing", line["path"])
}

func TestRecovery(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Recovery(quietLogger().Zerolog())(func(c echo.Context) error {
		panic("boom")
	})
	err := h(c)

	var httpErr *echo.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
}
