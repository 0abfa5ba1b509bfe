package pipeline

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/trobanga/medboard/internal/models"
	"github.com/trobanga/medboard/internal/services"
)

// admissionWindow is how far back a synthesized admission date may lie
const admissionWindow = 90 * 24 * time.Hour

// dateLayout is the YYYY-MM-DD form used for admission dates
const dateLayout = "2006-01-02"

// ErrMissingField is wrapped by Transform when a required directory field is absent
var ErrMissingField = errors.New("missing required field")

var (
	lastThreeDigits    = regexp.MustCompile(`\d{3}$`)
	trailingDigitGroup = regexp.MustCompile(`\d+$`)
)

// Transformer turns directory users into patients. The clock and the random
// source are injected so that results are reproducible under test.
// A Transformer is not safe for concurrent use.
type Transformer struct {
	now func() time.Time
	rng *rand.Rand
}

// NewTransformer creates a transformer with an explicit clock and random source
func NewTransformer(now func() time.Time, rng *rand.Rand) *Transformer {
	return &Transformer{now: now, rng: rng}
}

// DefaultTransformer creates a transformer using the wall clock and a time-seeded source
func DefaultTransformer() *Transformer {
	seed := uint64(time.Now().UnixNano())
	return NewTransformer(time.Now, rand.New(rand.NewPCG(seed, seed>>1)))
}

// Transform maps one directory user to a patient.
// Identity and biographical fields are copied as-is; admission date,
// department, status and blood group are drawn from the random source.
func (t *Transformer) Transform(user services.DirectoryUser) (models.Patient, error) {
	if err := checkRequired(user); err != nil {
		return models.Patient{}, err
	}

	gender := models.Gender(user.Gender)
	if !models.IsValidGender(gender) {
		return models.Patient{}, fmt.Errorf("unknown gender %q", user.Gender)
	}

	return models.Patient{
		ID:        *user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		BirthDate: user.BirthDate,
		Gender:    gender,
		Address: models.Address{
			Address:    user.Address.Address,
			City:       user.Address.City,
			State:      user.Address.State,
			PostalCode: user.Address.PostalCode,
		},
		AdmissionDate:    t.admissionDate(),
		Department:       models.Departments[t.rng.IntN(len(models.Departments))],
		Status:           models.Statuses[t.rng.IntN(len(models.Statuses))],
		BloodGroup:       models.BloodGroups[t.rng.IntN(len(models.BloodGroups))],
		EmergencyContact: EmergencyContact(user.Phone),
	}, nil
}

func (t *Transformer) admissionDate() string {
	offset := time.Duration(t.rng.Int64N(int64(admissionWindow)))
	return t.now().Add(-offset).UTC().Format(dateLayout)
}

// EmergencyContact derives the emergency number from a phone number by
// replacing its last three digits with 999. When fewer than three digits end
// the string, that trailing run is replaced instead. A phone that does not end
// in a digit is returned unchanged.
func EmergencyContact(phone string) string {
	if lastThreeDigits.MatchString(phone) {
		return lastThreeDigits.ReplaceAllString(phone, "999")
	}
	return trailingDigitGroup.ReplaceAllString(phone, "999")
}

func checkRequired(user services.DirectoryUser) error {
	if user.ID == nil {
		return fmt.Errorf("%w: id", ErrMissingField)
	}

	required := []struct {
		name  string
		value string
	}{
		{"firstName", user.FirstName},
		{"lastName", user.LastName},
		{"email", user.Email},
		{"phone", user.Phone},
		{"birthDate", user.BirthDate},
		{"gender", user.Gender},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
	}
	return nil
}
