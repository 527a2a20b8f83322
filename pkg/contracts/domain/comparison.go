package domain

import "strconv"

// DefaultAgeDelta relates a school year level to the typical student age
// (age = year level + delta).
const DefaultAgeDelta = 5

// SuburbComparison pairs the school-age population of a suburb with the
// enrolment of schools located there. Enrolment is fractional because it is
// a mean over census dates within a year.
type SuburbComparison struct {
	Suburb     string  `json:"suburb" csv:"Suburb"`
	Population int     `json:"population" csv:"Population"`
	Enrolment  float64 `json:"enrolment" csv:"Enrolment"`
}

// Difference returns population minus enrolment.
func (c SuburbComparison) Difference() float64 {
	return float64(c.Population) - c.Enrolment
}

// IsEmpty reports whether nobody lives in the age group and nobody is enrolled.
func (c SuburbComparison) IsEmpty() bool {
	return c.Population == 0 && c.Enrolment == 0
}

// AgeGroupReport is the comparison of one age group for one census year.
type AgeGroupReport struct {
	Group AgeGroup           `json:"group"`
	Year  int                `json:"year"`
	Delta int                `json:"delta"`
	Rows  []SuburbComparison `json:"rows"`
}

// Title returns a human readable heading for the report.
func (r AgeGroupReport) Title() string {
	return "Population vs Enrolment in " + strconv.Itoa(r.Year) + " for " + r.Group.Label() + " years olds"
}
