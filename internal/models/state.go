package models

// State is the whole in-memory application state owned by the store
type State struct {
	Patients         []Patient `json:"patients"`
	Phase            Phase     `json:"phase"`
	Loading          bool      `json:"loading"`
	Error            string    `json:"error,omitempty"` // Empty means no error
	SearchTerm       string    `json:"searchTerm"`
	FilterDepartment string    `json:"filterDepartment"`
	FilterStatus     string    `json:"filterStatus"`
	FetchID          string    `json:"fetchId,omitempty"` // Latest started fetch; older results are dropped
}

// Phase is the lifecycle position of the patient collection
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseReady         Phase = "ready"
	PhaseFailed        Phase = "failed"
)

// InitialState returns the state the application starts with:
// an empty collection waiting for its first fetch
func InitialState() State {
	return State{
		Patients: []Patient{},
		Phase:    PhaseUninitialized,
		Loading:  true,
	}
}

// IsValidPhase checks if the phase is recognized
func IsValidPhase(p Phase) bool {
	switch p {
	case PhaseUninitialized, PhaseLoading, PhaseReady, PhaseFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if phase transition is valid
// Valid transitions:
//
//	uninitialized -> loading
//	loading -> ready | failed | loading (superseding fetch)
//	ready -> loading (refresh)
//	failed -> loading (manual retry)
func (p Phase) CanTransitionTo(next Phase) bool {
	if !IsValidPhase(next) {
		return false
	}
	switch p {
	case PhaseUninitialized:
		return next == PhaseLoading
	case PhaseLoading:
		return next == PhaseReady || next == PhaseFailed || next == PhaseLoading
	case PhaseReady:
		return next == PhaseLoading
	case PhaseFailed:
		return next == PhaseLoading
	default:
		return false
	}
}
