package models

// DefaultFetchError is recorded when a fetch fails without a usable message
const DefaultFetchError = "Failed to fetch patient data"

// Apply returns the state that results from applying action to state.
// Pure function - the input state and its patient slice are never mutated.
// Unknown actions, and fetch actions whose phase change is not allowed by
// Phase.CanTransitionTo, return the state unchanged.
func Apply(state State, action Action) State {
	switch a := action.(type) {
	case FetchStarted:
		if !state.Phase.CanTransitionTo(PhaseLoading) {
			return state
		}
		state.Phase = PhaseLoading
		state.Loading = true
		state.Error = ""
		state.FetchID = a.FetchID
		return state

	case FetchSucceeded:
		if a.FetchID != state.FetchID {
			return state // Superseded by a later fetch
		}
		if !state.Phase.CanTransitionTo(PhaseReady) {
			return state
		}
		state.Patients = clonePatients(a.Patients)
		state.Phase = PhaseReady
		state.Loading = false
		state.Error = ""
		return state

	case FetchFailed:
		if a.FetchID != state.FetchID || !state.Phase.CanTransitionTo(PhaseFailed) {
			return state
		}
		msg := a.Message
		if msg == "" {
			msg = DefaultFetchError
		}
		state.Phase = PhaseFailed
		state.Loading = false
		state.Error = msg
		return state

	case AddPatient:
		state.Patients = AppendPatient(state.Patients, a.Patient)
		return state

	case UpdatePatient:
		state.Patients = ReplacePatient(state.Patients, a.Patient)
		return state

	case DeletePatient:
		state.Patients = RemovePatient(state.Patients, a.ID)
		return state

	case SetSearch:
		state.SearchTerm = a.Term
		return state

	case SetFilterDepartment:
		state.FilterDepartment = a.Department
		return state

	case SetFilterStatus:
		state.FilterStatus = a.Status
		return state

	case ClearError:
		state.Error = ""
		return state

	default:
		return state
	}
}

// NextPatientID returns max(existing ids, 0) + 1
func NextPatientID(patients []Patient) int {
	maxID := 0
	for _, p := range patients {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

// AppendPatient returns a new slice with patient appended under a fresh ID.
// Any ID already set on patient is ignored.
func AppendPatient(patients []Patient, patient Patient) []Patient {
	patient.ID = NextPatientID(patients)
	newPatients := make([]Patient, len(patients), len(patients)+1)
	copy(newPatients, patients)
	return append(newPatients, patient)
}

// ReplacePatient returns a new slice where the patient with the same ID is
// replaced in place. If no patient matches, an unchanged copy is returned.
func ReplacePatient(patients []Patient, updated Patient) []Patient {
	newPatients := clonePatients(patients)
	for i, p := range newPatients {
		if p.ID == updated.ID {
			newPatients[i] = updated
			break
		}
	}
	return newPatients
}

// RemovePatient returns a new slice without the patient with the given ID
func RemovePatient(patients []Patient, id int) []Patient {
	newPatients := make([]Patient, 0, len(patients))
	for _, p := range patients {
		if p.ID != id {
			newPatients = append(newPatients, p)
		}
	}
	return newPatients
}

// FindPatient returns a copy of the patient with the given ID
func FindPatient(patients []Patient, id int) (Patient, bool) {
	for _, p := range patients {
		if p.ID == id {
			return p, true
		}
	}
	return Patient{}, false
}

func clonePatients(patients []Patient) []Patient {
	newPatients := make([]Patient, len(patients))
	copy(newPatients, patients)
	return newPatients
}
