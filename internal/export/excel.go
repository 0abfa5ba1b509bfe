// Package export writes the patient table and dashboard summary as an xlsx workbook.
package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/trobanga/medboard/internal/dashboard"
	"github.com/trobanga/medboard/internal/models"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names
const (
	PatientsSheet = "Patients"
	SummarySheet  = "Summary"
)

// PatientHeader is the column order of the Patients sheet
var PatientHeader = []string{
	"ID",
	"First Name",
	"Last Name",
	"Email",
	"Phone",
	"Birth Date",
	"Gender",
	"Address",
	"City",
	"State",
	"Postal Code",
	"Admission Date",
	"Department",
	"Status",
	"Blood Group",
	"Emergency Contact",
}

var patientColumnWidths = []float64{6, 14, 14, 32, 20, 12, 8, 28, 16, 16, 12, 14, 14, 12, 11, 20}

// GenerateWorkbook renders patients and summary into an xlsx document
func GenerateWorkbook(patients []models.Patient, summary dashboard.Summary) ([]byte, error) {
	f := excelize.NewFile()

	if _, err := f.NewSheet(PatientsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	// Indexes shift once the default sheet is gone
	index, err := f.GetSheetIndex(PatientsSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to look up sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writePatientsSheet(f, patients, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummarySheet(f, summary, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the workbook and stores it at path
func WriteFile(path string, patients []models.Patient, summary dashboard.Summary) error {
	data, err := GenerateWorkbook(patients, summary)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writePatientsSheet(f *excelize.File, patients []models.Patient, headerStyle int) error {
	if err := writeRow(f, PatientsSheet, 1, toCells(PatientHeader)); err != nil {
		return err
	}
	if err := styleRow(f, PatientsSheet, 1, len(PatientHeader), headerStyle); err != nil {
		return err
	}

	for i, width := range patientColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(PatientsSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, p := range patients {
		row := []interface{}{
			p.ID,
			p.FirstName,
			p.LastName,
			p.Email,
			p.Phone,
			p.BirthDate,
			string(p.Gender),
			p.Address.Address,
			p.Address.City,
			p.Address.State,
			p.Address.PostalCode,
			p.AdmissionDate,
			string(p.Department),
			string(p.Status),
			string(p.BloodGroup),
			p.EmergencyContact,
		}
		if err := writeRow(f, PatientsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(PatientsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

// writeSummarySheet lays out one two-column block per aggregation,
// separated by a blank row
func writeSummarySheet(f *excelize.File, summary dashboard.Summary, headerStyle int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	blocks := []struct {
		header [2]string
		rows   [][]interface{}
	}{
		{
			header: [2]string{"Status", "Patients"},
			rows: [][]interface{}{
				{"Total", summary.Stats.Total},
				{"Admitted", summary.Stats.Admitted},
				{"Critical", summary.Stats.Critical},
				{"Discharged", summary.Stats.Discharged},
			},
		},
		{header: [2]string{"Gender", "Patients"}, rows: genderRows(summary.Gender)},
		{header: [2]string{"Age Group", "Patients"}, rows: ageRows(summary.AgeGroups)},
		{header: [2]string{"Department", "Patients"}, rows: departmentRows(summary.Departments)},
	}

	row := 1
	for _, block := range blocks {
		if err := writeRow(f, SummarySheet, row, []interface{}{block.header[0], block.header[1]}); err != nil {
			return err
		}
		if err := styleRow(f, SummarySheet, row, 2, headerStyle); err != nil {
			return err
		}
		row++
		for _, values := range block.rows {
			if err := writeRow(f, SummarySheet, row, values); err != nil {
				return err
			}
			row++
		}
		row++
	}
	return nil
}

func genderRows(counts []dashboard.GenderCount) [][]interface{} {
	rows := make([][]interface{}, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []interface{}{string(c.Name), c.Value})
	}
	return rows
}

func ageRows(counts []dashboard.AgeGroupCount) [][]interface{} {
	rows := make([][]interface{}, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []interface{}{c.AgeGroup, c.Count})
	}
	return rows
}

func departmentRows(counts []dashboard.DepartmentCount) [][]interface{} {
	rows := make([][]interface{}, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []interface{}{string(c.Department), c.Count})
	}
	return rows
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row int, columns int, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
