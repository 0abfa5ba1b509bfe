package cmd

import (
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show patient statistics and charts",
	Long: `Fetch the patient collection and print the headline statistics
(total, admitted, critical, discharged) followed by charts of the gender,
age group and department distribution.

Examples:
  medboard dashboard
  medboard dashboard --limit 100 --no-progress`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.load(cmd.Context()); err != nil {
		return err
	}

	return renderDashboard(cmd.OutOrStdout(), a.store.Snapshot().Patients, a.currentYear())
}
