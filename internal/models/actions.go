package models

// Action is a discrete state change applied by Apply.
// The concrete types below are the only implementations.
type Action interface {
	actionName() string
}

// FetchStarted marks the beginning of a fetch identified by FetchID
type FetchStarted struct {
	FetchID string
}

// FetchSucceeded delivers the transformed collection of a fetch
type FetchSucceeded struct {
	FetchID  string
	Patients []Patient
}

// FetchFailed delivers the failure description of a fetch
type FetchFailed struct {
	FetchID string
	Message string
}

// AddPatient appends a patient; its ID is assigned by Apply
type AddPatient struct {
	Patient Patient
}

// UpdatePatient replaces the patient with the same ID
type UpdatePatient struct {
	Patient Patient
}

// DeletePatient removes the patient with the given ID
type DeletePatient struct {
	ID int
}

// SetSearch sets the free-text search term
type SetSearch struct {
	Term string
}

// SetFilterDepartment sets the department filter ("" means any)
type SetFilterDepartment struct {
	Department string
}

// SetFilterStatus sets the status filter ("" means any)
type SetFilterStatus struct {
	Status string
}

// ClearError drops the current error without touching anything else
type ClearError struct{}

func (FetchStarted) actionName() string        { return "fetch_started" }
func (FetchSucceeded) actionName() string      { return "fetch_succeeded" }
func (FetchFailed) actionName() string         { return "fetch_failed" }
func (AddPatient) actionName() string          { return "add_patient" }
func (UpdatePatient) actionName() string       { return "update_patient" }
func (DeletePatient) actionName() string       { return "delete_patient" }
func (SetSearch) actionName() string           { return "set_search" }
func (SetFilterDepartment) actionName() string { return "set_filter_department" }
func (SetFilterStatus) actionName() string     { return "set_filter_status" }
func (ClearError) actionName() string          { return "clear_error" }

// ActionName returns the stable name of an action, used in logs
func ActionName(a Action) string {
	if a == nil {
		return ""
	}
	return a.actionName()
}
