package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "file unavailable", errType: ErrTypeFileUnavailable, expected: "FILE_UNAVAILABLE"},
		{name: "malformed record", errType: ErrTypeMalformedRecord, expected: "MALFORMED_RECORD"},
		{name: "validation", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "config", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "export", errType: ErrTypeExport, expected: "EXPORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    &AppError{Type: ErrTypeMalformedRecord, Message: "unknown month"},
			wantMessage: "[MALFORMED_RECORD] unknown month",
		},
		{
			name:        "error with cause",
			appError:    &AppError{Type: ErrTypeFileUnavailable, Message: "file not found or unreadable", Cause: fs.ErrNotExist},
			wantMessage: "[FILE_UNAVAILABLE] file not found or unreadable: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := NewFileUnavailableError("schools.csv", fs.ErrNotExist)

	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, "schools.csv", err.Context["path"])
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeMalformedRecord, Message: "bad row"}
	err.WithContext("row", 7).WithContext("column", 3)

	require.NotNil(t, err.Context)
	assert.Equal(t, 7, err.Context["row"])
	assert.Equal(t, 3, err.Context["column"])
}

func TestIsType(t *testing.T) {
	malformed := NewMalformedRecordError("unknown year level", nil)
	wrapped := fmt.Errorf("read enrolment: %w", malformed)
	nested := NewValidationError("record rejected", NewMalformedRecordError("bad date", nil))

	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{name: "direct match", err: malformed, errType: ErrTypeMalformedRecord, want: true},
		{name: "wrapped match", err: wrapped, errType: ErrTypeMalformedRecord, want: true},
		{name: "different type", err: malformed, errType: ErrTypeFileUnavailable, want: false},
		{name: "nested cause", err: nested, errType: ErrTypeMalformedRecord, want: true},
		{name: "plain error", err: errors.New("boom"), errType: ErrTypeMalformedRecord, want: false},
		{name: "nil error", err: nil, errType: ErrTypeMalformedRecord, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsType(tt.err, tt.errType))
		})
	}
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrTypeConfig, TypeOf(fmt.Errorf("load: %w", NewConfigError("bad", nil))))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
}
