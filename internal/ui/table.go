package ui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/trobanga/medboard/internal/models"
)

// RenderPatientTable prints patients as an aligned table followed by a
// "Showing X of Y patients" footer, where total is the unfiltered count
func RenderPatientTable(w io.Writer, patients []models.Patient, total int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tDEPARTMENT\tSTATUS\tBLOOD\tADMITTED")
	for _, p := range patients {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.FullName(),
			p.Email,
			p.Phone,
			p.Department,
			p.Status,
			orDash(string(p.BloodGroup)),
			p.AdmissionDate,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nShowing %d of %d patients\n", len(patients), total)
	return err
}

// RenderPatientDetail prints every field of a single patient
func RenderPatientDetail(w io.Writer, p models.Patient) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"ID", fmt.Sprintf("%d", p.ID)},
		{"Name", p.FullName()},
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Emergency contact", orDash(p.EmergencyContact)},
		{"Birth date", p.BirthDate},
		{"Gender", string(p.Gender)},
		{"Address", fmt.Sprintf("%s, %s, %s %s", p.Address.Address, p.Address.City, p.Address.State, p.Address.PostalCode)},
		{"Department", string(p.Department)},
		{"Status", string(p.Status)},
		{"Blood group", orDash(string(p.BloodGroup))},
		{"Admitted", p.AdmissionDate},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
