package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "schoolcensus/internal/errors"
	"schoolcensus/pkg/contracts/domain"
)

// RecordValidator applies struct-tag rules to normalized records.
// A validator.Validate caches struct metadata, so one instance is shared.
type RecordValidator struct {
	validate *validator.Validate
}

// NewRecordValidator creates a record validator
func NewRecordValidator() *RecordValidator {
	return &RecordValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// ValidateCensus checks a normalized census record. Violations are reported
// as MALFORMED_RECORD errors naming the offending fields.
func (v *RecordValidator) ValidateCensus(rec domain.CensusRecord) error {
	if err := v.validate.Struct(rec); err != nil {
		return apperrors.NewMalformedRecordError(describe(err), err)
	}
	return nil
}

// describe turns validator field errors into "Field (tag=param)" pairs.
func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s (%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
	}
	return "invalid census record: " + strings.Join(parts, ", ")
}
