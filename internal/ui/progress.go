package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar wraps the progressbar library to show how many directory
// records have been transformed so far
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBarWithWriter creates a progress bar that writes to a specific writer
func NewProgressBarWithWriter(total int64, description string, writer io.Writer) *ProgressBar {
	bar := progressbar.NewOptions64(
		total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(false),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(writer) }),
	)

	return &ProgressBar{bar: bar}
}

// Add increments the progress bar by the given amount
func (p *ProgressBar) Add(amount int64) error {
	return p.bar.Add64(amount)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() error {
	return p.bar.Finish()
}

// Clear clears the progress bar from the terminal
func (p *ProgressBar) Clear() error {
	return p.bar.Clear()
}

// Spinner reports an operation of unknown duration, such as the
// outstanding directory request
type Spinner struct {
	out         io.Writer
	description string
	startTime   time.Time
}

// NewSpinner creates a spinner writing to stderr
func NewSpinner(description string) *Spinner {
	return NewSpinnerWithWriter(description, os.Stderr)
}

// NewSpinnerWithWriter creates a spinner writing to out
func NewSpinnerWithWriter(description string, out io.Writer) *Spinner {
	return &Spinner{out: out, description: description}
}

// Start prints the description and starts the clock
func (s *Spinner) Start() {
	s.startTime = time.Now()
	_, _ = fmt.Fprintf(s.out, "%s...\n", s.description)
}

// Stop prints the outcome with the elapsed time
func (s *Spinner) Stop(success bool) {
	elapsed := time.Since(s.startTime).Round(time.Millisecond)

	if success {
		_, _ = fmt.Fprintf(s.out, "✓ %s (completed in %v)\n", s.description, elapsed)
	} else {
		_, _ = fmt.Fprintf(s.out, "✗ %s (failed after %v)\n", s.description, elapsed)
	}
}
