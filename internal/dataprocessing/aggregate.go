package dataprocessing

import (
	"sort"

	"schoolcensus/pkg/contracts/domain"
)

// FilterSchoolsBySuburb returns the schools located in suburb, in input order.
func FilterSchoolsBySuburb(schools []domain.SchoolRecord, suburb string) []domain.SchoolRecord {
	matched := []domain.SchoolRecord{}
	for _, s := range schools {
		if s.Suburb == suburb {
			matched = append(matched, s)
		}
	}
	return matched
}

// AllSuburbs returns the distinct suburbs present in the population data.
func AllSuburbs(pop domain.PopulationData) map[string]struct{} {
	suburbs := make(map[string]struct{})
	for key := range pop {
		suburbs[key.Suburb] = struct{}{}
	}
	return suburbs
}

// SortedSuburbs returns AllSuburbs in ascending order.
func SortedSuburbs(pop domain.PopulationData) []string {
	set := AllSuburbs(pop)
	suburbs := make([]string, 0, len(set))
	for s := range set {
		suburbs = append(suburbs, s)
	}
	sort.Strings(suburbs)
	return suburbs
}

type schoolLevel struct {
	school string
	level  int
}

type meanAcc struct {
	sum   float64
	count int
}

// AverageYearlyEnrolment totals each school's enrolment for year across levels.
// Census records for the same school, level and year (e.g. February and August
// snapshots) are averaged first; the per-level means are then summed. A level
// without records adds nothing. Every school in records appears in the result,
// with 0 when no level matched.
func AverageYearlyEnrolment(records []domain.CensusRecord, year int, levels []int) map[string]float64 {
	totals := make(map[string]float64)
	acc := make(map[schoolLevel]*meanAcc)

	for _, rec := range records {
		totals[rec.SchoolName] = 0
		if rec.Year() != year {
			continue
		}
		key := schoolLevel{school: rec.SchoolName, level: rec.YearLevel}
		a, ok := acc[key]
		if !ok {
			a = &meanAcc{}
			acc[key] = a
		}
		a.sum += rec.Enrolment
		a.count++
	}

	for school := range totals {
		for _, level := range levels {
			if a, ok := acc[schoolLevel{school: school, level: level}]; ok {
				totals[school] += a.sum / float64(a.count)
			}
		}
	}
	return totals
}
