// Package store owns the application state and serializes every change to it
// through the pure models.Apply reducer.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trobanga/medboard/internal/dashboard"
	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/models"
)

// PatientFetcher loads the full patient collection from upstream
type PatientFetcher interface {
	FetchPatients(ctx context.Context) ([]models.Patient, error)
	Source() string
}

// Store holds the current state. It is safe for concurrent use; the HTTP
// surface calls it from many goroutines.
type Store struct {
	mu      sync.RWMutex
	state   models.State
	fetcher PatientFetcher
	logger  *lib.Logger
	newID   func() string
}

// New creates a store in the initial state
func New(fetcher PatientFetcher, logger *lib.Logger) *Store {
	return &Store{
		state:   models.InitialState(),
		fetcher: fetcher,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// Fetch loads the collection from upstream. Only the most recently started
// fetch may change the collection; the result of an older one is dropped.
// On failure the error is recorded in the state and also returned.
func (s *Store) Fetch(ctx context.Context) error {
	fetchID := s.newID()
	s.dispatch(models.FetchStarted{FetchID: fetchID})
	lib.LogFetchStarted(s.logger, fetchID, s.fetcher.Source())

	startTime := time.Now()
	patients, err := s.fetcher.FetchPatients(ctx)
	if err != nil {
		lib.LogFetchFailed(s.logger, fetchID, err, lib.ClassifyError(err).IsRetryable)
		s.dispatchResult(fetchID, models.FetchFailed{FetchID: fetchID, Message: lib.FetchErrorMessage(err)})
		return err
	}

	if s.dispatchResult(fetchID, models.FetchSucceeded{FetchID: fetchID, Patients: patients}) {
		lib.LogFetchCompleted(s.logger, fetchID, len(patients), time.Since(startTime))
	}
	return nil
}

// Retry clears the recorded error and fetches again
func (s *Store) Retry(ctx context.Context) error {
	s.ClearError()
	return s.Fetch(ctx)
}

// Add appends patient under a fresh id and returns that id.
// Any id already set on patient is ignored.
func (s *Store) Add(patient models.Patient) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := models.NextPatientID(s.state.Patients)
	s.applyLocked(models.AddPatient{Patient: patient})
	return id
}

// Update replaces the patient with the same id.
// Returns false, leaving the state untouched, when no such patient exists.
func (s *Store) Update(patient models.Patient) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := models.FindPatient(s.state.Patients, patient.ID); !ok {
		return false
	}
	s.applyLocked(models.UpdatePatient{Patient: patient})
	return true
}

// Remove deletes the patient with the given id.
// Returns false when no such patient exists.
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := models.FindPatient(s.state.Patients, id); !ok {
		return false
	}
	s.applyLocked(models.DeletePatient{ID: id})
	return true
}

// Get returns the patient with the given id
func (s *Store) Get(id int) (models.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.FindPatient(s.state.Patients, id)
}

// SetSearchTerm sets the free-text search
func (s *Store) SetSearchTerm(term string) {
	s.dispatch(models.SetSearch{Term: term})
}

// SetDepartmentFilter sets the department filter; "" clears it
func (s *Store) SetDepartmentFilter(department string) {
	s.dispatch(models.SetFilterDepartment{Department: department})
}

// SetStatusFilter sets the status filter; "" clears it
func (s *Store) SetStatusFilter(status string) {
	s.dispatch(models.SetFilterStatus{Status: status})
}

// ClearError drops the recorded error
func (s *Store) ClearError() {
	s.dispatch(models.ClearError{})
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state
	snapshot.Patients = make([]models.Patient, len(s.state.Patients))
	copy(snapshot.Patients, s.state.Patients)
	return snapshot
}

// Filtered returns the patients matching the current search and filters,
// together with the size of the unfiltered collection
func (s *Store) Filtered() ([]models.Patient, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return dashboard.CriteriaFromState(s.state).Filter(s.state.Patients), len(s.state.Patients)
}

func (s *Store) dispatch(action models.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(action)
}

// dispatchResult applies a fetch outcome if fetchID is still the latest fetch
func (s *Store) dispatchResult(fetchID string, action models.Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.FetchID != fetchID {
		lib.LogFetchSuperseded(s.logger, fetchID, s.state.FetchID)
		return false
	}
	s.applyLocked(action)
	return true
}

func (s *Store) applyLocked(action models.Action) {
	s.state = models.Apply(s.state, action)
	s.logger.Debug("Applied action", "action", models.ActionName(action), "patients", len(s.state.Patients))
}
