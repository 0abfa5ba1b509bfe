package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trobanga/medboard/internal/dashboard"
	"github.com/trobanga/medboard/internal/export"
	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/models"
	"github.com/trobanga/medboard/internal/ui"
)

var (
	searchTerm       string
	filterDepartment string
	filterStatus     string
	exportPath       string
)

// patientsCmd represents the patients command group
var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "List or export patients",
	Long: `Work with the patient table.

Available subcommands:
  list    - Print the filtered patient table
  export  - Write the filtered table and summary to an xlsx workbook`,
}

var patientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the filtered patient table",
	Long: `Fetch the patient collection and print every patient matching the filters.

The search matches case-insensitively against first name, last name and
email. Department and status are exact matches; leave them empty for any.

Examples:
  medboard patients list
  medboard patients list --search smith
  medboard patients list --department ICU --status critical`,
	Args: cobra.NoArgs,
	RunE: runPatientsList,
}

var patientsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered table to xlsx",
	Long: `Fetch the patient collection and write the patients matching the filters
to an xlsx workbook. A second sheet holds the dashboard summary of the
exported patients.

Examples:
  medboard patients export --out patients.xlsx
  medboard patients export --department Cardiology --out cardiology.xlsx`,
	Args: cobra.NoArgs,
	RunE: runPatientsExport,
}

func init() {
	rootCmd.AddCommand(patientsCmd)
	patientsCmd.AddCommand(patientsListCmd)
	patientsCmd.AddCommand(patientsExportCmd)

	for _, c := range []*cobra.Command{patientsListCmd, patientsExportCmd} {
		c.Flags().StringVar(&searchTerm, "search", "", "case-insensitive search over name and email")
		c.Flags().StringVar(&filterDepartment, "department", "", "only patients of this department")
		c.Flags().StringVar(&filterStatus, "status", "", "only patients with this status")
		_ = c.RegisterFlagCompletionFunc("department", completeValues(departmentNames()))
		_ = c.RegisterFlagCompletionFunc("status", completeValues(statusNames()))
	}
	patientsExportCmd.Flags().StringVarP(&exportPath, "out", "o", "patients.xlsx", "output file")
}

func runPatientsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.load(cmd.Context()); err != nil {
		return err
	}

	applyFilterFlags(a)
	filtered, total := a.store.Filtered()
	return ui.RenderPatientTable(cmd.OutOrStdout(), filtered, total)
}

func runPatientsExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.load(cmd.Context()); err != nil {
		return err
	}

	applyFilterFlags(a)
	filtered, total := a.store.Filtered()
	err = lib.LogOperation(a.logger, "export "+exportPath, func() error {
		return export.WriteFile(exportPath, filtered, dashboard.Summarize(filtered, a.currentYear()))
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d of %d patients to %s\n", len(filtered), total, exportPath)
	return nil
}

func applyFilterFlags(a *app) {
	a.store.SetSearchTerm(searchTerm)
	a.store.SetDepartmentFilter(filterDepartment)
	a.store.SetStatusFilter(filterStatus)
}

func departmentNames() []string {
	names := make([]string, len(models.Departments))
	for i, d := range models.Departments {
		names[i] = string(d)
	}
	return names
}

func statusNames() []string {
	names := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		names[i] = string(s)
	}
	return names
}

func completeValues(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
