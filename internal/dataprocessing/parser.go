package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	apperrors "schoolcensus/internal/errors"
	"schoolcensus/internal/validation"
	"schoolcensus/pkg/contracts/domain"
)

// Census file columns. Column 2 holds the school sector and is not used.
const (
	censusDateCol      = 0
	censusSchoolCol    = 1
	censusLevelCol     = 3
	censusEnrolmentCol = 4
)

// Population file layout: timestamp, suburb, then agesRange female counts
// followed by agesRange male counts.
const (
	populationTimeCol   = 0
	populationSuburbCol = 1
	populationFirstAge  = 2
)

var censusValidator = validation.NewRecordValidator()

// ReadSchoolLocations reads the school locations CSV at path.
func ReadSchoolLocations(path string) ([]domain.SchoolRecord, error) {
	f, err := openDataset(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	schools, err := ParseSchoolLocations(f)
	if err != nil {
		return nil, fmt.Errorf("read school locations %s: %w", path, err)
	}
	return schools, nil
}

// ParseSchoolLocations extracts (name, address, suburb) from the first three
// columns of every data row. Extra columns are ignored.
func ParseSchoolLocations(r io.Reader) ([]domain.SchoolRecord, error) {
	schools := []domain.SchoolRecord{}
	err := eachRow(r, func(line int, row []string) error {
		if len(row) < 3 {
			return malformedRow(line, fmt.Sprintf("school row has %d fields, want at least 3", len(row)), nil)
		}
		schools = append(schools, domain.SchoolRecord{
			Name:    row[0],
			Address: row[1],
			Suburb:  row[2],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return schools, nil
}

// ReadEnrolmentData reads the enrolment census CSV at path.
func ReadEnrolmentData(path string) ([]domain.CensusRecord, error) {
	f, err := openDataset(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ParseEnrolmentData(f)
	if err != nil {
		return nil, fmt.Errorf("read enrolment data %s: %w", path, err)
	}
	return records, nil
}

// ParseEnrolmentData normalizes each census row: long-format date, cleaned
// school name, integer year level (mature-age labels count as Older) and
// numeric enrolment.
func ParseEnrolmentData(r io.Reader) ([]domain.CensusRecord, error) {
	records := []domain.CensusRecord{}
	err := eachRow(r, func(line int, row []string) error {
		if len(row) <= censusEnrolmentCol {
			return malformedRow(line, fmt.Sprintf("census row has %d fields, want at least %d", len(row), censusEnrolmentCol+1), nil)
		}

		rec, err := ConvertCensusFields([]string{
			row[censusDateCol],
			row[censusSchoolCol],
			row[censusLevelCol],
			row[censusEnrolmentCol],
		})
		if err != nil {
			return withLine(err, line)
		}
		if err := censusValidator.ValidateCensus(rec); err != nil {
			return withLine(err, line)
		}

		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReadPopulationData reads the population projections CSV at path.
func ReadPopulationData(path string, agesRange int) (domain.PopulationData, error) {
	f, err := openDataset(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pop, err := ParsePopulationData(f, agesRange)
	if err != nil {
		return nil, fmt.Errorf("read population data %s: %w", path, err)
	}
	return pop, nil
}

// ParsePopulationData builds the (suburb, year) -> per-age counts mapping.
// The male count for age a sits agesRange columns after the female count.
// When a key repeats, the last row wins.
func ParsePopulationData(r io.Reader, agesRange int) (domain.PopulationData, error) {
	if agesRange <= 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("ages range must be positive, got %d", agesRange), nil)
	}

	pop := domain.PopulationData{}
	width := populationFirstAge + 2*agesRange
	err := eachRow(r, func(line int, row []string) error {
		if len(row) < width {
			return malformedRow(line, fmt.Sprintf("population row has %d fields, want at least %d", len(row), width), nil)
		}

		year, err := ParseYear(row[populationTimeCol])
		if err != nil {
			return withLine(err, line)
		}

		counts := make([]domain.AgeCount, agesRange)
		for age := 0; age < agesRange; age++ {
			col := populationFirstAge + age
			female, err := parseCount(row[col])
			if err != nil {
				return withLine(err, line).WithContext("column", col)
			}
			male, err := parseCount(row[col+agesRange])
			if err != nil {
				return withLine(err, line).WithContext("column", col+agesRange)
			}
			counts[age] = domain.AgeCount{Female: female, Male: male}
		}

		key := domain.PopulationKey{Suburb: strings.TrimSpace(row[populationSuburbCol]), Year: year}
		pop[key] = counts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pop, nil
}

// openDataset opens a data file, classifying failures as FILE_UNAVAILABLE.
func openDataset(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewFileUnavailableError(path, err)
	}
	return f, nil
}

// eachRow skips the header and calls fn with the 1-based line of every data row.
func eachRow(r io.Reader, fn func(line int, row []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.NewMalformedRecordError("unreadable header row", err)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return apperrors.NewMalformedRecordError("unreadable csv row", err)
		}

		line, _ := cr.FieldPos(0)
		if err := fn(line, row); err != nil {
			return err
		}
	}
}

// parseCount accepts whole numbers written either as integers or decimals.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, apperrors.NewMalformedRecordError(fmt.Sprintf("count %q is not a number", s), err)
	}
	return int(math.Round(f)), nil
}

func malformedRow(line int, message string, cause error) *apperrors.AppError {
	return apperrors.NewMalformedRecordError(message, cause).WithContext("line", line)
}

// withLine attaches the csv line to an AppError, wrapping other errors.
func withLine(err error, line int) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.WithContext("line", line)
	}
	return malformedRow(line, "invalid row", err)
}
