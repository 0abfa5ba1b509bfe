package pipeline

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/models"
	"github.com/trobanga/medboard/internal/services"
	"github.com/trobanga/medboard/internal/ui"
)

// UserLister is the upstream directory as seen by the fetch
type UserLister interface {
	ListUsers(ctx context.Context) ([]services.DirectoryUser, error)
	UsersURL() string
}

// Fetcher loads the directory and converts every user into a patient.
// FetchPatients calls are serialized: they share one Transformer and one
// progress writer.
type Fetcher struct {
	mu          sync.Mutex
	lister      UserLister
	transformer *Transformer
	logger      *lib.Logger
	progressOut io.Writer
}

// NewFetcher creates a fetcher over the given directory and transformer
func NewFetcher(lister UserLister, transformer *Transformer, logger *lib.Logger) *Fetcher {
	return &Fetcher{
		lister:      lister,
		transformer: transformer,
		logger:      logger,
	}
}

// WithProgress renders a progress bar to w while records are transformed
func (f *Fetcher) WithProgress(w io.Writer) *Fetcher {
	f.progressOut = w
	return f
}

// Source returns the URL the fetcher reads from
func (f *Fetcher) Source() string {
	return f.lister.UsersURL()
}

// FetchPatients performs one directory fetch and transforms the result.
// Any malformed record aborts the whole fetch; no partial list is returned.
func (f *Fetcher) FetchPatients(ctx context.Context) ([]models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	startTime := time.Now()

	users, err := f.lister.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	var progressBar *ui.ProgressBar
	if f.progressOut != nil && len(users) > 0 {
		progressBar = ui.NewProgressBarWithWriter(int64(len(users)), "Transforming records", f.progressOut)
	}

	patients := make([]models.Patient, 0, len(users))
	for i, user := range users {
		if err := ctx.Err(); err != nil {
			clearProgress(progressBar)
			return nil, lib.WrapError(lib.CategoryNetwork, "Fetch cancelled", err)
		}

		patient, err := f.transformer.Transform(user)
		if err != nil {
			clearProgress(progressBar)
			f.logger.Debug("Rejected directory record", "index", i, "error", err)
			return nil, lib.ErrMalformedRecord(i, err)
		}
		patients = append(patients, patient)

		if progressBar != nil {
			_ = progressBar.Add(1)
		}
	}

	if progressBar != nil {
		_ = progressBar.Finish()
	}

	f.logger.Debug("Transformed directory records",
		"patients", len(patients),
		"duration", time.Since(startTime))

	return patients, nil
}

func clearProgress(progressBar *ui.ProgressBar) {
	if progressBar != nil {
		_ = progressBar.Clear()
	}
}
