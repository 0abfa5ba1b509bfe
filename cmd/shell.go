package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/trobanga/medboard/internal/dashboard"
	"github.com/trobanga/medboard/internal/export"
	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/models"
	"github.com/trobanga/medboard/internal/store"
	"github.com/trobanga/medboard/internal/ui"
)

// errInputClosed ends a prompt when stdin reaches EOF
var errInputClosed = errors.New("input closed")

// clearValue typed at a field prompt empties the field
const clearValue = "-"

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session over the patient table",
	Long: `Fetch the patient collection and open an interactive session in which
patients can be searched, filtered, added, edited and deleted. Changes live
only as long as the session.

Type 'help' inside the session for the list of commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	sh := newShell(a.store, cmd.InOrStdin(), cmd.OutOrStdout(), a.now)
	if err := a.load(cmd.Context()); err != nil {
		sh.reportError(err)
		fmt.Fprintln(sh.out, "Use 'retry' to fetch again.")
	}
	return sh.run(cmd.Context())
}

type shellCommand struct {
	usage string
	help  string
	run   func(ctx context.Context, args []string, raw string) error
}

// shell is a line-oriented REPL over one store
type shell struct {
	store    *store.Store
	in       *bufio.Scanner
	out      io.Writer
	now      func() time.Time
	commands map[string]shellCommand
}

func newShell(st *store.Store, in io.Reader, out io.Writer, now func() time.Time) *shell {
	s := &shell{
		store: st,
		in:    bufio.NewScanner(in),
		out:   out,
		now:   now,
	}
	s.commands = map[string]shellCommand{
		"list":      {"list", "print the filtered patient table", s.list},
		"show":      {"show <id>", "print every field of one patient", s.show},
		"dashboard": {"dashboard", "print statistics and charts", s.dashboard},
		"search":    {"search [term]", "set the search term as typed; no term clears it", s.search},
		"filter":    {"filter department|status [value]", "set a filter; no value clears it", s.filter},
		"clear":     {"clear", "clear the search and both filters", s.clearFilters},
		"add":       {"add", "add a patient", s.add},
		"edit":      {"edit <id>", "edit a patient; enter keeps a value, - clears it", s.edit},
		"delete":    {"delete <id>", "delete a patient after confirmation", s.delete},
		"state":     {"state", "print the load phase, error and filters", s.state},
		"retry":     {"retry", "clear the error and fetch again", s.retry},
		"export":    {"export [file]", "write the filtered table to xlsx (default patients.xlsx)", s.export},
	}
	return s
}

func (s *shell) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Type 'help' for commands, 'quit' to leave.")
	for {
		fmt.Fprint(s.out, "medboard> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}

		name, raw := splitCommand(s.in.Text())
		if name == "" {
			continue
		}
		args := strings.Fields(raw)

		switch name {
		case "quit", "exit":
			return nil
		case "help":
			s.help()
			continue
		}

		command, ok := s.commands[name]
		if !ok {
			fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for commands.\n", name)
			continue
		}
		if err := command.run(ctx, args, raw); err != nil {
			if errors.Is(err, errInputClosed) {
				fmt.Fprintln(s.out)
				return nil
			}
			s.reportError(err)
		}
	}
}

func (s *shell) help() {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(s.out, "Commands:")
	for _, name := range names {
		c := s.commands[name]
		fmt.Fprintf(s.out, "  %-34s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(s.out, "  %-34s %s\n", "quit", "leave the session")
}

func (s *shell) reportError(err error) {
	var appErr *lib.AppError
	if errors.As(err, &appErr) {
		fmt.Fprint(s.out, appErr.UserMessage())
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

func (s *shell) list(ctx context.Context, args []string, raw string) error {
	filtered, total := s.store.Filtered()
	return ui.RenderPatientTable(s.out, filtered, total)
}

func (s *shell) show(ctx context.Context, args []string, raw string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	p, ok := s.store.Get(id)
	if !ok {
		return lib.ErrPatientNotFound(id)
	}
	return ui.RenderPatientDetail(s.out, p)
}

func (s *shell) dashboard(ctx context.Context, args []string, raw string) error {
	return renderDashboard(s.out, s.store.Snapshot().Patients, s.now().Year())
}

func (s *shell) search(ctx context.Context, args []string, raw string) error {
	s.store.SetSearchTerm(raw)
	return s.list(ctx, nil, "")
}

func (s *shell) filter(ctx context.Context, args []string, raw string) error {
	if len(args) == 0 {
		return errors.New("usage: filter department|status [value]")
	}
	value := strings.Join(args[1:], " ")
	switch strings.ToLower(args[0]) {
	case "department":
		s.store.SetDepartmentFilter(value)
	case "status":
		s.store.SetStatusFilter(value)
	default:
		return fmt.Errorf("unknown filter %q, expected department or status", args[0])
	}
	return s.list(ctx, nil, "")
}

func (s *shell) clearFilters(ctx context.Context, args []string, raw string) error {
	s.store.SetSearchTerm("")
	s.store.SetDepartmentFilter("")
	s.store.SetStatusFilter("")
	return s.list(ctx, nil, "")
}

func (s *shell) add(ctx context.Context, args []string, raw string) error {
	p := models.Patient{
		AdmissionDate: s.now().UTC().Format("2006-01-02"),
		Department:    models.DepartmentCardiology,
		Status:        models.StatusAdmitted,
	}
	if err := s.promptPatient(&p); err != nil {
		return err
	}

	id := s.store.Add(p)
	fmt.Fprintf(s.out, "✓ Added patient %d (%s)\n", id, p.FullName())
	return nil
}

func (s *shell) edit(ctx context.Context, args []string, raw string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	p, ok := s.store.Get(id)
	if !ok {
		return lib.ErrPatientNotFound(id)
	}
	if err := s.promptPatient(&p); err != nil {
		return err
	}

	if !s.store.Update(p) {
		return lib.ErrPatientNotFound(id)
	}
	fmt.Fprintf(s.out, "✓ Updated patient %d\n", id)
	return nil
}

func (s *shell) delete(ctx context.Context, args []string, raw string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	p, ok := s.store.Get(id)
	if !ok {
		return lib.ErrPatientNotFound(id)
	}

	answer, err := s.prompt(fmt.Sprintf("Are you sure you want to delete patient %d (%s)? [y/N]", id, p.FullName()), "")
	if err != nil {
		return err
	}
	if a := strings.ToLower(answer); a != "y" && a != "yes" {
		fmt.Fprintln(s.out, "Cancelled")
		return nil
	}

	s.store.Remove(id)
	fmt.Fprintf(s.out, "✓ Deleted patient %d\n", id)
	return nil
}

func (s *shell) state(ctx context.Context, args []string, raw string) error {
	st := s.store.Snapshot()
	fmt.Fprintf(s.out, "Phase:      %s\n", st.Phase)
	fmt.Fprintf(s.out, "Patients:   %d\n", len(st.Patients))
	fmt.Fprintf(s.out, "Search:     %q\n", st.SearchTerm)
	fmt.Fprintf(s.out, "Department: %q\n", st.FilterDepartment)
	fmt.Fprintf(s.out, "Status:     %q\n", st.FilterStatus)
	if st.Error != "" {
		fmt.Fprintf(s.out, "Error:      %s\n", st.Error)
	}
	return nil
}

func (s *shell) retry(ctx context.Context, args []string, raw string) error {
	if err := s.store.Retry(ctx); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "✓ Loaded %d patients\n", len(s.store.Snapshot().Patients))
	return nil
}

func (s *shell) export(ctx context.Context, args []string, raw string) error {
	path := "patients.xlsx"
	if len(args) > 0 {
		path = args[0]
	}
	filtered, total := s.store.Filtered()
	if err := export.WriteFile(path, filtered, dashboard.Summarize(filtered, s.now().Year())); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "✓ Exported %d of %d patients to %s\n", len(filtered), total, path)
	return nil
}

// promptPatient asks for every editable field, offering the current value as
// the default, and validates the result
func (s *shell) promptPatient(p *models.Patient) error {
	fields := []struct {
		label string
		value *string
	}{
		{"First name", &p.FirstName},
		{"Last name", &p.LastName},
		{"Email", &p.Email},
		{"Phone", &p.Phone},
		{"Birth date (YYYY-MM-DD)", &p.BirthDate},
		{"Street", &p.Address.Address},
		{"City", &p.Address.City},
		{"State", &p.Address.State},
		{"Postal code", &p.Address.PostalCode},
		{"Admission date (YYYY-MM-DD)", &p.AdmissionDate},
		{"Emergency contact", &p.EmergencyContact},
	}
	for _, f := range fields {
		answer, err := s.prompt(f.label, *f.value)
		if err != nil {
			return err
		}
		*f.value = answer
	}

	gender, err := s.prompt("Gender (male/female)", string(p.Gender))
	if err != nil {
		return err
	}
	department, err := s.prompt("Department ("+strings.Join(departmentNames(), "/")+")", string(p.Department))
	if err != nil {
		return err
	}
	status, err := s.prompt("Status ("+strings.Join(statusNames(), "/")+")", string(p.Status))
	if err != nil {
		return err
	}
	bloodGroup, err := s.prompt("Blood group (optional)", string(p.BloodGroup))
	if err != nil {
		return err
	}

	p.Gender = models.Gender(strings.ToLower(gender))
	p.Department = models.Department(department)
	p.Status = models.Status(strings.ToLower(status))
	p.BloodGroup = models.BloodGroup(strings.ToUpper(bloodGroup))

	if err := p.Validate(); err != nil {
		return lib.ErrInvalidPatient(err)
	}
	return nil
}

// prompt reads one line. An empty answer keeps current, clearValue empties it.
func (s *shell) prompt(label string, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(s.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	answer := strings.TrimSpace(s.in.Text())
	switch answer {
	case "":
		return current, nil
	case clearValue:
		return "", nil
	}
	return answer, nil
}

// splitCommand returns the lower-cased command word and the rest of the line
// after the single separator that follows it, untouched
func splitCommand(line string) (string, string) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	end := strings.IndexFunc(line, unicode.IsSpace)
	if end < 0 {
		return strings.ToLower(line), ""
	}
	_, size := utf8.DecodeRuneInString(line[end:])
	return strings.ToLower(line[:end]), line[end+size:]
}

func parseID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one patient id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid patient id %q", args[0])
	}
	return id, nil
}
