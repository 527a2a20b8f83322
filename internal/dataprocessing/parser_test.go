package dataprocessing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "schoolcensus/internal/errors"
	"schoolcensus/pkg/contracts/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// populationRow renders one population CSV row; female count for age a is
// base+a and male count is base+a+1000.
func populationRow(timestamp, suburb string, agesRange, base int) string {
	cols := []string{timestamp, suburb}
	for a := 0; a < agesRange; a++ {
		cols = append(cols, fmt.Sprint(base+a))
	}
	for a := 0; a < agesRange; a++ {
		cols = append(cols, fmt.Sprint(base+a+1000))
	}
	return strings.Join(cols, ",")
}

func TestParseSchoolLocations(t *testing.T) {
	input := `School Name,Address,Suburb,Sector,Type,Location
Garran Primary,Gilmore Crescent,Garran,Government,Primary School,"(-35.344681, 149.103287)"
School of Hard Knocks,Neverland,Discworld,Ministry of Magic,High School,
`
	schools, err := ParseSchoolLocations(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []domain.SchoolRecord{
		{Name: "Garran Primary", Address: "Gilmore Crescent", Suburb: "Garran"},
		{Name: "School of Hard Knocks", Address: "Neverland", Suburb: "Discworld"},
	}, schools)
}

func TestParseSchoolLocations_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "short row", input: "Name,Address,Suburb\nGarran Primary,Gilmore Crescent\n"},
		{name: "broken quoting", input: "Name,Address,Suburb\n\"Garran Primary,Gilmore Crescent,Garran\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchoolLocations(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMalformedRecord))
		})
	}
}

func TestParseSchoolLocations_HeaderOnly(t *testing.T) {
	schools, err := ParseSchoolLocations(strings.NewReader("Name,Address,Suburb\n"))
	require.NoError(t, err)
	assert.Empty(t, schools)

	schools, err = ParseSchoolLocations(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, schools)
}

func TestReadSchoolLocations_MissingFile(t *testing.T) {
	_, err := ReadSchoolLocations(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFileUnavailable))
}

func TestReadEnrolmentData(t *testing.T) {
	path := writeFile(t, "census.csv", `Census Date,School Name,Sector,Year Level,Enrolment
20 February 2019,Amaroo School,Government,Year 10,196
1 August 2018,"Canberra College, The",Government,Older & Mature,12
21 February 2018,The Woden School,Government,Mature,7
21 February 2018,Garran Preschool,Government,Preschool,40
`)

	records, err := ReadEnrolmentData(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.CensusRecord{
		{Date: "2019-02-20", SchoolName: "Amaroo School", YearLevel: 10, Enrolment: 196},
		{Date: "2018-08-01", SchoolName: "Canberra College", YearLevel: 13, Enrolment: 12},
		{Date: "2018-02-21", SchoolName: "Woden School", YearLevel: 13, Enrolment: 7},
		{Date: "2018-02-21", SchoolName: "Garran Preschool", YearLevel: 0, Enrolment: 40},
	}, records)
}

func TestParseEnrolmentData_CalendarInvalidDate(t *testing.T) {
	records, err := ParseEnrolmentData(strings.NewReader("h\n31 February 2019,Amaroo School,Government,Year 1,10\n"))
	require.NoError(t, err)
	assert.Equal(t, []domain.CensusRecord{
		{Date: "2019-02-31", SchoolName: "Amaroo School", YearLevel: 1, Enrolment: 10},
	}, records)
}

func TestReadEnrolmentData_Errors(t *testing.T) {
	header := "Census Date,School Name,Sector,Year Level,Enrolment\n"
	tests := []struct {
		name     string
		body     string
		wantLine int
	}{
		{name: "unknown year level", body: "20 February 2019,Amaroo School,Government,Year 14,196\n", wantLine: 2},
		{name: "unknown month", body: "20 February 2019,Amaroo School,Government,Year 9,196\n20 Febr 2019,Amaroo School,Government,Year 10,196\n", wantLine: 3},
		{name: "missing column", body: "20 February 2019,Amaroo School,Year 10,196\n", wantLine: 2},
		{name: "non numeric enrolment", body: "20 February 2019,Amaroo School,Government,Year 10,n/a\n", wantLine: 2},
		{name: "negative enrolment", body: "20 February 2019,Amaroo School,Government,Year 10,-3\n", wantLine: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "census.csv", header+tt.body)

			_, err := ReadEnrolmentData(path)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMalformedRecord), "got %v", err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantLine, appErr.Context["line"])
		})
	}
}

func TestReadEnrolmentData_MissingFile(t *testing.T) {
	_, err := ReadEnrolmentData(filepath.Join(t.TempDir(), "absent.csv"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFileUnavailable))
}

func TestParsePopulationData(t *testing.T) {
	input := strings.Join([]string{
		"Date,Suburb,F0,F1,F2,M0,M1,M2",
		"06/30/2015 12:00:00 AM, Yarralumla ,1,2,3,4,5,6",
		"06/30/2016 12:00:00 AM,Acton,7,8,9,10,11,12",
		"06/30/2015 11:59:59 PM,Yarralumla,20,21,22.0,23,24,25",
	}, "\n")

	pop, err := ParsePopulationData(strings.NewReader(input), 3)
	require.NoError(t, err)

	assert.Len(t, pop, 2)
	assert.Equal(t, []domain.AgeCount{{Female: 20, Male: 23}, {Female: 21, Male: 24}, {Female: 22, Male: 25}},
		pop[domain.PopulationKey{Suburb: "Yarralumla", Year: 2015}], "last row wins and suburb is trimmed")
	assert.Equal(t, []domain.AgeCount{{Female: 7, Male: 10}, {Female: 8, Male: 11}, {Female: 9, Male: 12}},
		pop[domain.PopulationKey{Suburb: "Acton", Year: 2016}])
}

func TestParsePopulationData_LooseTimestamp(t *testing.T) {
	input := "h\n02/30/2015 12:00:00 AM,Acton,1,2,3,4,5,6\n6/30/2016 12:00:00 AM,Acton,1,1,1,1,1,1\n"

	pop, err := ParsePopulationData(strings.NewReader(input), 3)
	require.NoError(t, err)
	assert.Contains(t, pop, domain.PopulationKey{Suburb: "Acton", Year: 2015})
	assert.Contains(t, pop, domain.PopulationKey{Suburb: "Acton", Year: 2016})
}

func TestReadPopulationData_FullAgeRange(t *testing.T) {
	header := populationRow("Date", "Suburb", domain.DefaultAgesRange, 0)
	path := writeFile(t, "population.csv", strings.Join([]string{
		header,
		populationRow("06/30/2019 12:00:00 AM", "Garran", domain.DefaultAgesRange, 0),
		populationRow("06/30/2020 12:00:00 AM", "Garran", domain.DefaultAgesRange, 5),
	}, "\n"))

	pop, err := ReadPopulationData(path, domain.DefaultAgesRange)
	require.NoError(t, err)

	counts := pop[domain.PopulationKey{Suburb: "Garran", Year: 2019}]
	require.Len(t, counts, 86)
	assert.Equal(t, domain.AgeCount{Female: 0, Male: 1000}, counts[0])
	assert.Equal(t, domain.AgeCount{Female: 85, Male: 1085}, counts[85])
	assert.Equal(t, domain.AgeCount{Female: 15, Male: 1015}, pop[domain.PopulationKey{Suburb: "Garran", Year: 2020}][10])
	assert.Contains(t, AllSuburbs(pop), "Garran")
}

func TestParsePopulationData_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		agesRange int
		wantType  apperrors.ErrorType
	}{
		{
			name:      "row too short",
			input:     "h\n06/30/2015 12:00:00 AM,Acton,1,2,3,4,5\n",
			agesRange: 3,
			wantType:  apperrors.ErrTypeMalformedRecord,
		},
		{
			name:      "bad timestamp",
			input:     "h\n2015-06-30,Acton,1,2,3,4,5,6\n",
			agesRange: 3,
			wantType:  apperrors.ErrTypeMalformedRecord,
		},
		{
			name:      "non numeric count",
			input:     "h\n06/30/2015 12:00:00 AM,Acton,1,x,3,4,5,6\n",
			agesRange: 3,
			wantType:  apperrors.ErrTypeMalformedRecord,
		},
		{
			name:      "non positive ages range",
			input:     "h\n",
			agesRange: 0,
			wantType:  apperrors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePopulationData(strings.NewReader(tt.input), tt.agesRange)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestReadPopulationData_MissingFile(t *testing.T) {
	_, err := ReadPopulationData(filepath.Join(t.TempDir(), "absent.csv"), 86)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFileUnavailable))
}
