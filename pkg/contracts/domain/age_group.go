package domain

import "strconv"

// AgeGroup is an inclusive range of single-year ages.
type AgeGroup struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

// Standard school age groups.
var (
	PreschoolAges    = AgeGroup{Name: "preschool", Min: 4, Max: 4}
	KindergartenAges = AgeGroup{Name: "kindergarten", Min: 5, Max: 5}
	PrimaryAges      = AgeGroup{Name: "primary", Min: 6, Max: 11}
	JuniorAges       = AgeGroup{Name: "junior", Min: 4, Max: 11}
	SecondaryAges    = AgeGroup{Name: "secondary", Min: 12, Max: 17}
)

// Ages returns a new slice holding every age in the group.
func (g AgeGroup) Ages() []int {
	if g.Max < g.Min {
		return []int{}
	}
	ages := make([]int, 0, g.Max-g.Min+1)
	for a := g.Min; a <= g.Max; a++ {
		ages = append(ages, a)
	}
	return ages
}

// Label formats the group as "min-max".
func (g AgeGroup) Label() string {
	return strconv.Itoa(g.Min) + "-" + strconv.Itoa(g.Max)
}

// AgeGroupByName looks up one of the standard age groups.
func AgeGroupByName(name string) (AgeGroup, bool) {
	for _, g := range []AgeGroup{PreschoolAges, KindergartenAges, PrimaryAges, JuniorAges, SecondaryAges} {
		if g.Name == name {
			return g, true
		}
	}
	return AgeGroup{}, false
}
