package dashboard

import (
	"strings"

	"github.com/trobanga/medboard/internal/models"
)

// Criteria is the combined search and filter selection of the table.
// Empty fields place no constraint.
type Criteria struct {
	SearchTerm string            `json:"searchTerm"`
	Department models.Department `json:"filterDepartment"`
	Status     models.Status     `json:"filterStatus"`
}

// CriteriaFromState returns the filter selection held by state
func CriteriaFromState(state models.State) Criteria {
	return Criteria{
		SearchTerm: state.SearchTerm,
		Department: models.Department(state.FilterDepartment),
		Status:     models.Status(state.FilterStatus),
	}
}

// Matches reports whether p satisfies the search term and both equality filters.
// The search is a case-insensitive substring match over
// "<first> <last> <email>".
func (c Criteria) Matches(p models.Patient) bool {
	if c.SearchTerm != "" {
		haystack := strings.ToLower(p.FirstName + " " + p.LastName + " " + p.Email)
		if !strings.Contains(haystack, strings.ToLower(c.SearchTerm)) {
			return false
		}
	}
	if c.Department != "" && p.Department != c.Department {
		return false
	}
	if c.Status != "" && p.Status != c.Status {
		return false
	}
	return true
}

// Filter returns the matching patients in their original order
func (c Criteria) Filter(patients []models.Patient) []models.Patient {
	matched := make([]models.Patient, 0, len(patients))
	for _, p := range patients {
		if c.Matches(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Matches is the filter predicate over explicit arguments
func Matches(p models.Patient, searchTerm string, department models.Department, status models.Status) bool {
	return Criteria{SearchTerm: searchTerm, Department: department, Status: status}.Matches(p)
}
