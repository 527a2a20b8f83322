package domain

// DefaultAgesRange is the number of single-year age columns per sex in the
// population projections (ages 0..84 plus "85 and older").
const DefaultAgesRange = 86

// PopulationKey identifies a population projection row.
type PopulationKey struct {
	Suburb string `json:"suburb"`
	Year   int    `json:"year"`
}

// AgeCount holds the projected female and male population for one age.
type AgeCount struct {
	Female int `json:"female"`
	Male   int `json:"male"`
}

// Total returns the combined female and male count.
func (a AgeCount) Total() int {
	return a.Female + a.Male
}

// PopulationData maps (suburb, year) to counts indexed by age. The last
// element covers the open-ended oldest age bracket.
type PopulationData map[PopulationKey][]AgeCount
