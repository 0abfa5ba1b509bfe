package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/trobanga/medboard/internal/dashboard"
	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/models"
	"github.com/trobanga/medboard/internal/pipeline"
	"github.com/trobanga/medboard/internal/services"
	"github.com/trobanga/medboard/internal/store"
	"github.com/trobanga/medboard/internal/ui"
	"golang.org/x/term"
)

// app is the wiring shared by every command: configuration, logger and a
// store backed by the directory fetcher
type app struct {
	config       *models.ProjectConfig
	logger       *lib.Logger
	store        *store.Store
	showProgress bool
	now          func() time.Time
}

func newApp(cmd *cobra.Command) (*app, error) {
	config, err := services.LoadConfig(cfgFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := lib.NewLogger(lib.ParseLogLevel(config.Log.Level))
	if verbose {
		logger.SetLevel(lib.LogLevelDebug)
	}

	showProgress := !noProgress && term.IsTerminal(int(os.Stderr.Fd()))

	httpClient := services.NewHTTPClient(config.Source.Timeout(), config.Retry, logger)
	directory := services.NewDirectoryClient(config.Source, httpClient, logger)
	fetcher := pipeline.NewFetcher(directory, pipeline.DefaultTransformer(), logger)
	if showProgress {
		fetcher.WithProgress(os.Stderr)
	}

	return &app{
		config:       config,
		logger:       logger,
		store:        store.New(fetcher, logger),
		showProgress: showProgress,
		now:          time.Now,
	}, nil
}

// load performs the initial fetch
func (a *app) load(ctx context.Context) error {
	var spinner *ui.Spinner
	if a.showProgress {
		spinner = ui.NewSpinner("Fetching patients")
		spinner.Start()
	}

	err := a.store.Fetch(ctx)

	if spinner != nil {
		spinner.Stop(err == nil)
	}
	return err
}

func (a *app) currentYear() int {
	return a.now().Year()
}

// renderDashboard prints the stats cards and the three charts for patients
func renderDashboard(w io.Writer, patients []models.Patient, currentYear int) error {
	summary := dashboard.Summarize(patients, currentYear)

	if err := ui.RenderStatCards(w, []ui.StatCard{
		{Label: "Total Patients", Value: summary.Stats.Total},
		{Label: "Admitted", Value: summary.Stats.Admitted},
		{Label: "Critical", Value: summary.Stats.Critical},
		{Label: "Discharged", Value: summary.Stats.Discharged},
	}); err != nil {
		return err
	}

	genderBars := make([]ui.Bar, 0, len(summary.Gender))
	for _, g := range summary.Gender {
		genderBars = append(genderBars, ui.Bar{Label: string(g.Name), Value: g.Value})
	}
	ageBars := make([]ui.Bar, 0, len(summary.AgeGroups))
	for _, a := range summary.AgeGroups {
		ageBars = append(ageBars, ui.Bar{Label: a.AgeGroup, Value: a.Count})
	}
	departmentBars := make([]ui.Bar, 0, len(summary.Departments))
	for _, d := range summary.Departments {
		departmentBars = append(departmentBars, ui.Bar{Label: string(d.Department), Value: d.Count})
	}

	if err := ui.RenderBarChart(w, "Gender Distribution", genderBars); err != nil {
		return err
	}
	if err := ui.RenderBarChart(w, "Age Distribution", ageBars); err != nil {
		return err
	}
	return ui.RenderBarChart(w, "Patients by Department", departmentBars)
}
