package models

import "fmt"

// Patient is a directory person annotated with synthesized clinical metadata
type Patient struct {
	ID               int        `json:"id"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	BirthDate        string     `json:"birthDate"` // YYYY-MM-DD as delivered upstream
	Gender           Gender     `json:"gender"`
	Address          Address    `json:"address"`
	AdmissionDate    string     `json:"admissionDate"` // YYYY-MM-DD, within the last 90 days
	Department       Department `json:"department"`
	Status           Status     `json:"status"`
	BloodGroup       BloodGroup `json:"bloodGroup,omitempty"`
	EmergencyContact string     `json:"emergencyContact,omitempty"`
}

// Address is the postal address carried over from the directory record
type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

// FullName returns "<first> <last>"
func (p Patient) FullName() string {
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}

// Gender is the biological sex reported by the directory
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Genders lists the gender values in chart order
var Genders = []Gender{GenderMale, GenderFemale}

// Department is the hospital ward a patient is assigned to
type Department string

const (
	DepartmentCardiology  Department = "Cardiology"
	DepartmentNeurology   Department = "Neurology"
	DepartmentOrthopedics Department = "Orthopedics"
	DepartmentPediatrics  Department = "Pediatrics"
	DepartmentEmergency   Department = "Emergency"
	DepartmentICU         Department = "ICU"
)

// Departments lists every department in declared order
var Departments = []Department{
	DepartmentCardiology,
	DepartmentNeurology,
	DepartmentOrthopedics,
	DepartmentPediatrics,
	DepartmentEmergency,
	DepartmentICU,
}

// Status is the admission status of a patient
type Status string

const (
	StatusAdmitted   Status = "admitted"
	StatusDischarged Status = "discharged"
	StatusCritical   Status = "critical"
)

// Statuses lists every status in declared order
var Statuses = []Status{StatusAdmitted, StatusDischarged, StatusCritical}

// BloodGroup is an ABO/Rh blood type
type BloodGroup string

// BloodGroups lists every blood group in declared order
var BloodGroups = []BloodGroup{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// IsValidGender checks if the gender is recognized
func IsValidGender(g Gender) bool {
	return g == GenderMale || g == GenderFemale
}

// IsValidDepartment checks if the department is one of the fixed set
func IsValidDepartment(d Department) bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// IsValidStatus checks if the status is one of the fixed set
func IsValidStatus(s Status) bool {
	switch s {
	case StatusAdmitted, StatusDischarged, StatusCritical:
		return true
	default:
		return false
	}
}

// IsValidBloodGroup checks if the blood group is one of the fixed set.
// The empty value is valid because the field is optional.
func IsValidBloodGroup(b BloodGroup) bool {
	if b == "" {
		return true
	}
	for _, known := range BloodGroups {
		if b == known {
			return true
		}
	}
	return false
}
