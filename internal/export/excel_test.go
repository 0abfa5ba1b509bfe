package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trobanga/medboard/internal/dashboard"
	"github.com/trobanga/medboard/internal/models"
	"github.com/xuri/excelize/v2"
)

func samplePatients() []models.Patient {
	return []models.Patient{
		{
			ID:               1,
			FirstName:        "Jane",
			LastName:         "Doe",
			Email:            "jane@x.com",
			Phone:            "555-0100",
			BirthDate:        "1990-04-12",
			Gender:           models.GenderFemale,
			Address:          models.Address{Address: "1 Main St", City: "Springfield", State: "Oregon", PostalCode: "97477"},
			AdmissionDate:    "2024-03-01",
			Department:       models.DepartmentICU,
			Status:           models.StatusCritical,
			BloodGroup:       "O+",
			EmergencyContact: "555-0999",
		},
		{
			ID:            2,
			FirstName:     "John",
			LastName:      "Roe",
			Email:         "john@x.com",
			Phone:         "555-0200",
			BirthDate:     "2010-01-01",
			Gender:        models.GenderMale,
			AdmissionDate: "2024-02-20",
			Department:    models.DepartmentPediatrics,
			Status:        models.StatusAdmitted,
		},
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestGenerateWorkbook_Sheets(t *testing.T) {
	patients := samplePatients()

	data, err := GenerateWorkbook(patients, dashboard.Summarize(patients, 2024))
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{PatientsSheet, SummarySheet}, f.GetSheetList())
	assert.Equal(t, PatientsSheet, f.GetSheetName(f.GetActiveSheetIndex()))
}

func TestGenerateWorkbook_PatientRows(t *testing.T) {
	patients := samplePatients()

	data, err := GenerateWorkbook(patients, dashboard.Summarize(patients, 2024))
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows(PatientsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, PatientHeader, rows[0])

	jane := rows[1]
	assert.Equal(t, "1", jane[0])
	assert.Equal(t, "Jane", jane[1])
	assert.Equal(t, "Springfield", jane[8])
	assert.Equal(t, "ICU", jane[12])
	assert.Equal(t, "critical", jane[13])
	assert.Equal(t, "O+", jane[14])
	assert.Equal(t, "555-0999", jane[15])

	assert.Equal(t, "Pediatrics", rows[2][12])
}

func TestGenerateWorkbook_Summary(t *testing.T) {
	patients := samplePatients()

	data, err := GenerateWorkbook(patients, dashboard.Summarize(patients, 2024))
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows(SummarySheet)
	require.NoError(t, err)

	values := map[string]string{}
	for _, row := range rows {
		if len(row) == 2 {
			values[row[0]] = row[1]
		}
	}
	assert.Equal(t, "2", values["Total"])
	assert.Equal(t, "1", values["Critical"])
	assert.Equal(t, "1", values["female"])
	assert.Equal(t, "1", values["0-17"])
	assert.Equal(t, "1", values["18-34"])
	assert.Equal(t, "0", values["Neurology"])
	assert.Equal(t, "1", values["ICU"])
}

func TestGenerateWorkbook_Empty(t *testing.T) {
	data, err := GenerateWorkbook(nil, dashboard.Summarize(nil, 2024))
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows(PatientsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, PatientHeader, rows[0])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patients.xlsx")
	patients := samplePatients()

	require.NoError(t, WriteFile(path, patients, dashboard.Summarize(patients, 2024)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(PatientsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
