package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard as a JSON API",
	Long: `Fetch the patient collection once and serve it over HTTP until interrupted.

Endpoints:
  GET    /api/patients         filtered table (?search=&department=&status=)
  GET    /api/patients/:id     one patient
  POST   /api/patients         add a patient
  PUT    /api/patients/:id     replace a patient
  DELETE /api/patients/:id     remove a patient
  GET    /api/dashboard        statistics and chart series
  GET    /api/state            load phase, error and filters
  PUT    /api/filters          set search and filters
  POST   /api/fetch            clear the error and fetch again
  GET    /api/export.xlsx      filtered table as a workbook

A failed initial fetch does not stop the server; POST /api/fetch retries it.

Examples:
  medboard serve
  medboard serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if err := a.load(cmd.Context()); err != nil {
		a.logger.Warn("Initial fetch failed, serving without data", "error", lib.FetchErrorMessage(err))
	}

	e := server.New(a.store, a.logger, a.now)
	return server.Run(cmd.Context(), e, a.config.Server.Addr, a.logger)
}
