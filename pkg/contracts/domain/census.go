package domain

import (
	"strconv"
	"strings"
)

// Year level bounds. Preschool and Kindergarten share level 0,
// Older/Mature students are level 13.
const (
	MinYearLevel = 0
	MaxYearLevel = 13
)

// CensusRecord is a single enrolment snapshot for one school and year level.
// A school usually has several records per calendar year (e.g. February and
// August census dates).
type CensusRecord struct {
	Date       string  `json:"date" csv:"Date" validate:"required"`
	SchoolName string  `json:"school_name" csv:"SchoolName" validate:"required"`
	YearLevel  int     `json:"year_level" csv:"YearLevel" validate:"min=0,max=13"`
	Enrolment  float64 `json:"enrolment" csv:"Enrolment" validate:"gte=0"`
}

// Year returns the calendar year of the census date, or 0 if the date
// is not in YYYY-MM-DD form.
func (r CensusRecord) Year() int {
	head, _, _ := strings.Cut(r.Date, "-")
	year, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return year
}
