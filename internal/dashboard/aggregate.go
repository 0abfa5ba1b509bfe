// Package dashboard derives chart series, headline statistics and the
// filtered table view from a patient collection. Every function here is pure.
package dashboard

import (
	"strconv"
	"strings"

	"github.com/trobanga/medboard/internal/models"
)

// Age buckets, in ascending order
const (
	AgeGroupChild      = "0-17"
	AgeGroupYoungAdult = "18-34"
	AgeGroupAdult      = "35-54"
	AgeGroupSenior     = "55+"
)

// GenderCount is one slice of the gender chart
type GenderCount struct {
	Name  models.Gender `json:"name"`
	Value int           `json:"value"`
}

// AgeGroupCount is one bar of the age chart
type AgeGroupCount struct {
	AgeGroup string `json:"ageGroup"`
	Count    int    `json:"count"`
}

// DepartmentCount is one bar of the department chart
type DepartmentCount struct {
	Department models.Department `json:"department"`
	Count      int               `json:"count"`
}

// StatusSummary backs the headline cards
type StatusSummary struct {
	Total      int `json:"total"`
	Admitted   int `json:"admitted"`
	Critical   int `json:"critical"`
	Discharged int `json:"discharged"`
}

// Summary bundles every aggregation shown on the dashboard
type Summary struct {
	Stats       StatusSummary     `json:"stats"`
	Gender      []GenderCount     `json:"gender"`
	AgeGroups   []AgeGroupCount   `json:"ageGroups"`
	Departments []DepartmentCount `json:"departments"`
}

// Summarize computes all dashboard aggregations for currentYear
func Summarize(patients []models.Patient, currentYear int) Summary {
	return Summary{
		Stats:       SummarizeStatus(patients),
		Gender:      GenderCounts(patients),
		AgeGroups:   AgeGroupCounts(patients, currentYear),
		Departments: DepartmentCounts(patients),
	}
}

// GenderCounts returns exactly [male, female] in that order, zero counts included
func GenderCounts(patients []models.Patient) []GenderCount {
	counts := make([]GenderCount, len(models.Genders))
	for i, g := range models.Genders {
		counts[i].Name = g
	}
	for _, p := range patients {
		for i := range counts {
			if counts[i].Name == p.Gender {
				counts[i].Value++
				break
			}
		}
	}
	return counts
}

// AgeGroupCounts buckets patients by currentYear minus birth year.
// Only non-empty buckets are returned, in the order each bucket is first
// encountered while scanning patients. Patients whose birth year cannot be
// parsed are skipped.
func AgeGroupCounts(patients []models.Patient, currentYear int) []AgeGroupCount {
	counts := []AgeGroupCount{}
	index := map[string]int{}

	for _, p := range patients {
		year, ok := BirthYear(p.BirthDate)
		if !ok {
			continue
		}
		group := AgeGroup(currentYear - year)
		if i, seen := index[group]; seen {
			counts[i].Count++
			continue
		}
		index[group] = len(counts)
		counts = append(counts, AgeGroupCount{AgeGroup: group, Count: 1})
	}
	return counts
}

// AgeGroup returns the bucket label for an age in whole years
func AgeGroup(age int) string {
	switch {
	case age < 18:
		return AgeGroupChild
	case age < 35:
		return AgeGroupYoungAdult
	case age < 55:
		return AgeGroupAdult
	default:
		return AgeGroupSenior
	}
}

// BirthYear extracts the leading year of a YYYY-MM-DD style date.
// Month and day are not looked at, so "1996-5-30" is accepted.
func BirthYear(birthDate string) (int, bool) {
	yearPart, _, _ := strings.Cut(strings.TrimSpace(birthDate), "-")
	if len(yearPart) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return 0, false
	}
	return year, true
}

// DepartmentCounts returns all six departments in declared order, zero counts included
func DepartmentCounts(patients []models.Patient) []DepartmentCount {
	counts := make([]DepartmentCount, len(models.Departments))
	index := make(map[models.Department]int, len(models.Departments))
	for i, d := range models.Departments {
		counts[i].Department = d
		index[d] = i
	}
	for _, p := range patients {
		if i, ok := index[p.Department]; ok {
			counts[i].Count++
		}
	}
	return counts
}

// SummarizeStatus counts patients per admission status
func SummarizeStatus(patients []models.Patient) StatusSummary {
	summary := StatusSummary{Total: len(patients)}
	for _, p := range patients {
		switch p.Status {
		case models.StatusAdmitted:
			summary.Admitted++
		case models.StatusCritical:
			summary.Critical++
		case models.StatusDischarged:
			summary.Discharged++
		}
	}
	return summary
}
