/*
Copyright © 2025 Medboard Contributors

medboard is a CLI dashboard over a patient directory.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trobanga/medboard/internal/lib"
)

var (
	// Global flags
	cfgFile    string
	verbose    bool
	noProgress bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "medboard",
	Short: "medboard - patient records dashboard",
	Long: `medboard loads people from a demo users directory, annotates each with
synthesized clinical data (admission date, department, status, blood group,
emergency contact) and presents statistics, charts and an editable table.

All state lives in memory and is discarded when the process exits.

Example:
  medboard dashboard
  medboard patients list --department ICU --status critical
  medboard patients export --out patients.xlsx
  medboard shell
  medboard serve --addr :8080`,
	Version:       "0.1.0",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var appErr *lib.AppError
		if errors.As(err, &appErr) {
			fmt.Fprint(os.Stderr, appErr.UserMessage())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all subcommands)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./medboard.yaml, ~/.config/medboard/medboard.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress indicators")
	flags.String("source", "", "base URL of the users directory (default https://dummyjson.com)")
	flags.Int("limit", 0, "number of users to fetch (default 50)")
	flags.Int("timeout", 0, "request timeout in seconds (default 30)")
	flags.String("log-level", "", "log level: debug, info, warn, error (default info)")

	// Add version template
	rootCmd.SetVersionTemplate("medboard version {{.Version}}\n")
}
