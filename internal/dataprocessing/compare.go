package dataprocessing

import (
	"schoolcensus/pkg/contracts/domain"
)

// ComparePopulationAndEnrolment produces one (suburb, population, enrolment)
// row per suburb in population, ordered by suburb name.
//
// Enrolment for a suburb is the sum of AverageYearlyEnrolment(enrolment, year,
// levels) over the schools located there. Population is the female plus male
// count for that suburb and year at every age a with a-delta in levels.
//
// levels is read two ways: as year level codes for the enrolment lookup and,
// shifted by delta, as ages for the population lookup. Callers conventionally
// pass an age range such as domain.JuniorAges.Ages(), so the two sums do not
// describe the same cohort. This matches the established report output and is
// kept as is.
func ComparePopulationAndEnrolment(
	enrolment []domain.CensusRecord,
	schools []domain.SchoolRecord,
	population domain.PopulationData,
	levels []int,
	year, delta int,
) []domain.SuburbComparison {
	schoolTotals := AverageYearlyEnrolment(enrolment, year, levels)

	levelSet := make(map[int]struct{}, len(levels))
	for _, l := range levels {
		levelSet[l] = struct{}{}
	}

	suburbs := SortedSuburbs(population)
	rows := make([]domain.SuburbComparison, 0, len(suburbs))
	for _, suburb := range suburbs {
		var enrolled float64
		for _, school := range FilterSchoolsBySuburb(schools, suburb) {
			if total, ok := schoolTotals[school.Name]; ok {
				enrolled += total
			}
		}

		var people int
		for age, count := range population[domain.PopulationKey{Suburb: suburb, Year: year}] {
			if _, ok := levelSet[age-delta]; ok {
				people += count.Total()
			}
		}

		rows = append(rows, domain.SuburbComparison{
			Suburb:     suburb,
			Population: people,
			Enrolment:  enrolled,
		})
	}
	return rows
}
