package pipeline

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trobanga/medboard/internal/models"
	"github.com/trobanga/medboard/internal/services"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func seededTransformer(seed uint64) *Transformer {
	return NewTransformer(func() time.Time { return fixedNow }, rand.New(rand.NewPCG(seed, seed)))
}

func intPtr(i int) *int { return &i }

func directoryUser(id int) services.DirectoryUser {
	return services.DirectoryUser{
		ID:        intPtr(id),
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@x.com",
		Phone:     "+1 555-123-4567",
		BirthDate: "1990-04-12",
		Gender:    "female",
		Address: services.DirectoryAddress{
			Address:    "1 Main St",
			City:       "Springfield",
			State:      "Oregon",
			PostalCode: "97477",
		},
	}
}

func TestTransform_CopiesIdentityFields(t *testing.T) {
	patient, err := seededTransformer(1).Transform(directoryUser(7))

	require.NoError(t, err)
	assert.Equal(t, 7, patient.ID)
	assert.Equal(t, "Jane", patient.FirstName)
	assert.Equal(t, "Doe", patient.LastName)
	assert.Equal(t, "jane@x.com", patient.Email)
	assert.Equal(t, "+1 555-123-4567", patient.Phone)
	assert.Equal(t, "1990-04-12", patient.BirthDate)
	assert.Equal(t, models.GenderFemale, patient.Gender)
	assert.Equal(t, models.Address{Address: "1 Main St", City: "Springfield", State: "Oregon", PostalCode: "97477"}, patient.Address)
	assert.Equal(t, "+1 555-123-4999", patient.EmergencyContact)
}

func TestTransform_SynthesizedFieldsInRange(t *testing.T) {
	transformer := seededTransformer(42)
	earliest := fixedNow.Add(-admissionWindow).Truncate(24 * time.Hour)

	for i := 1; i <= 200; i++ {
		patient, err := transformer.Transform(directoryUser(i))
		require.NoError(t, err)

		assert.True(t, models.IsValidDepartment(patient.Department), patient.Department)
		assert.True(t, models.IsValidStatus(patient.Status), patient.Status)
		assert.True(t, models.IsValidBloodGroup(patient.BloodGroup), patient.BloodGroup)
		assert.NotEmpty(t, patient.BloodGroup)

		admitted, err := time.Parse(dateLayout, patient.AdmissionDate)
		require.NoError(t, err)
		assert.False(t, admitted.After(fixedNow), patient.AdmissionDate)
		assert.False(t, admitted.Before(earliest), patient.AdmissionDate)
	}
}

func TestTransform_CoversEveryDepartment(t *testing.T) {
	transformer := seededTransformer(7)
	seen := map[models.Department]bool{}

	for i := 1; i <= 300; i++ {
		patient, err := transformer.Transform(directoryUser(i))
		require.NoError(t, err)
		seen[patient.Department] = true
	}

	assert.Len(t, seen, len(models.Departments))
}

func TestTransform_DeterministicForSeed(t *testing.T) {
	first, err := seededTransformer(99).Transform(directoryUser(1))
	require.NoError(t, err)
	second, err := seededTransformer(99).Transform(directoryUser(1))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTransform_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(u *services.DirectoryUser)
		field  string
	}{
		{"id", func(u *services.DirectoryUser) { u.ID = nil }, "id"},
		{"first name", func(u *services.DirectoryUser) { u.FirstName = "" }, "firstName"},
		{"last name", func(u *services.DirectoryUser) { u.LastName = " " }, "lastName"},
		{"email", func(u *services.DirectoryUser) { u.Email = "" }, "email"},
		{"phone", func(u *services.DirectoryUser) { u.Phone = "" }, "phone"},
		{"birth date", func(u *services.DirectoryUser) { u.BirthDate = "" }, "birthDate"},
		{"gender", func(u *services.DirectoryUser) { u.Gender = "" }, "gender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := directoryUser(1)
			tt.mutate(&user)

			_, err := seededTransformer(1).Transform(user)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingField)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestTransform_UnknownGender(t *testing.T) {
	user := directoryUser(1)
	user.Gender = "unknown"

	_, err := seededTransformer(1).Transform(user)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown gender")
}

func TestEmergencyContact(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"+81 965-431-3024", "+81 965-431-3999"},
		{"555-1234", "555-1999"},
		{"555-12", "555-999"},
		{"7", "999"},
		{"123", "999"},
		{"call me", "call me"},
		{"555-1234 ext.", "555-1234 ext."},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, EmergencyContact(tt.phone))
		})
	}
}
