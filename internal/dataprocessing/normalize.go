package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "schoolcensus/internal/errors"
	"schoolcensus/pkg/contracts/domain"
)

// monthNumbers and yearLevels are never written after init.
var (
	monthNumbers = map[string]int{
		"January": 1, "February": 2, "March": 3, "April": 4,
		"May": 5, "June": 6, "July": 7, "August": 8,
		"September": 9, "October": 10, "November": 11, "December": 12,
	}

	yearLevels = func() map[string]int {
		levels := map[string]int{
			"Kindergarten": domain.MinYearLevel,
			"Preschool":    domain.MinYearLevel,
			"Older":        domain.MaxYearLevel,
		}
		for y := domain.MinYearLevel + 1; y < domain.MaxYearLevel; y++ {
			levels["Year "+strconv.Itoa(y)] = y
		}
		return levels
	}()
)

// FormatDate converts "<day> <MonthName> <Year>" into "YYYY-MM-DD", or into
// "YYYY" when short is true.
func FormatDate(s string, short bool) (string, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return "", apperrors.NewMalformedRecordError(
			fmt.Sprintf("date %q is not in \"day month year\" form", s), nil)
	}

	month, ok := monthNumbers[fields[1]]
	if !ok {
		return "", apperrors.NewMalformedRecordError(
			fmt.Sprintf("unknown month name %q", fields[1]), nil)
	}
	if short {
		return fields[2], nil
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return "", apperrors.NewMalformedRecordError(
			fmt.Sprintf("day %q is not a number", fields[0]), err)
	}
	return fmt.Sprintf("%s-%02d-%02d", fields[2], month, day), nil
}

// CleanSchoolName drops a leading "The " or a trailing ", The" so that
// "The Woden School" and "Woden School, The" both become "Woden School".
func CleanSchoolName(name string) string {
	if trimmed, ok := strings.CutPrefix(name, "The "); ok {
		return trimmed
	}
	if trimmed, ok := strings.CutSuffix(name, ", The"); ok {
		return trimmed
	}
	return name
}

// NormalizeLevelLabel folds the mature-age labels used by some census years
// into "Older".
func NormalizeLevelLabel(label string) string {
	switch label {
	case "Older & Mature", "Mature":
		return "Older"
	}
	return label
}

// ConvertLevel maps a year level label to its integer code:
// Preschool and Kindergarten are 0, Year 1..12 keep their number, Older is 13.
func ConvertLevel(label string) (int, error) {
	level, ok := yearLevels[label]
	if !ok {
		return 0, apperrors.NewMalformedRecordError(
			fmt.Sprintf("unknown year level %q", label), nil)
	}
	return level, nil
}

// ParseYear extracts the year from a "MM/DD/YYYY HH:MM:SS AM" timestamp.
// Only the year component is read; month and day are not checked.
func ParseYear(dt string) (int, error) {
	parts := strings.Split(strings.TrimSpace(dt), "/")
	if len(parts) != 3 {
		return 0, apperrors.NewMalformedRecordError(
			fmt.Sprintf("timestamp %q is not in MM/DD/YYYY HH:MM:SS AM form", dt), nil)
	}
	fields := strings.Fields(parts[2])
	if len(fields) == 0 {
		return 0, apperrors.NewMalformedRecordError(
			fmt.Sprintf("timestamp %q has no year", dt), nil)
	}
	year, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, apperrors.NewMalformedRecordError(
			fmt.Sprintf("year %q in timestamp is not a number", fields[0]), err)
	}
	return year, nil
}

// ConvertCensusFields normalizes the four census fields
// [date, school name, year level, enrolment] into a record. The date is kept
// in long YYYY-MM-DD form so records can be grouped by year and census date,
// and the enrolment stays fractional.
func ConvertCensusFields(fields []string) (domain.CensusRecord, error) {
	if len(fields) < 4 {
		return domain.CensusRecord{}, apperrors.NewMalformedRecordError(
			fmt.Sprintf("census record has %d fields, want 4", len(fields)), nil)
	}

	date, err := FormatDate(fields[0], false)
	if err != nil {
		return domain.CensusRecord{}, err
	}
	level, err := ConvertLevel(NormalizeLevelLabel(fields[2]))
	if err != nil {
		return domain.CensusRecord{}, err
	}
	enrolment, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return domain.CensusRecord{}, apperrors.NewMalformedRecordError(
			fmt.Sprintf("enrolment %q is not a number", fields[3]), err)
	}

	return domain.CensusRecord{
		Date:       date,
		SchoolName: CleanSchoolName(fields[1]),
		YearLevel:  level,
		Enrolment:  enrolment,
	}, nil
}
