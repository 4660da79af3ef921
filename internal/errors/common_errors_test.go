package errors

import (
	"errors"
	"fmt"
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
		{"parsing error type", ErrTypeParsing, "PARSING"},
		{"storage error type", ErrTypeStorage, "STORAGE"},
		{"validation error type", ErrTypeValidation, "VALIDATION"},
		{"not found error type", ErrTypeNotFound, "NOT_FOUND"},
		{"config error type", ErrTypeConfig, "CONFIG"},
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
			appError:    &AppError{Type: ErrTypeValidation, Message: "missing required column"},
			wantMessage: "[VALIDATION] missing required column",
		},
		{
			name:        "error with cause",
			appError:    &AppError{Type: ErrTypeStorage, Message: "failed to save workbook", Cause: fmt.Errorf("disk full")},
			wantMessage: "[STORAGE] failed to save workbook: disk full",
		},
		{
			name: "error with sorted context",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "invalid number",
				Context: map[string]interface{}{"row": 4, "column": "Subtotal"},
			},
			wantMessage: "[PARSING] invalid number (column=Subtotal, row=4)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewStorageError("write failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, err.Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeParsing, Message: "bad date"}
	got := err.WithContext("file", "sales.csv").WithContext("row", 12)

	require.Same(t, err, got)
	assert.Equal(t, "sales.csv", err.Context["file"])
	assert.Equal(t, 12, err.Context["row"])
}

func TestHelperConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{"parsing", NewParsingError("bad cell", nil), ErrTypeParsing, "bad cell"},
		{"storage", NewStorageError("cannot write", nil), ErrTypeStorage, "cannot write"},
		{"validation", NewValidationError("invalid period"), ErrTypeValidation, "invalid period"},
		{"not found", NewNotFoundError("sheet Growth_Metrics"), ErrTypeNotFound, "sheet Growth_Metrics not found"},
		{"config", NewConfigError("bad yaml", nil), ErrTypeConfig, "bad yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestIsType(t *testing.T) {
	inner := NewValidationError("missing Store ID")
	outer := NewStorageError("load financial extract", inner)
	wrapped := fmt.Errorf("run failed: %w", outer)

	assert.True(t, IsType(wrapped, ErrTypeStorage))
	assert.True(t, IsType(wrapped, ErrTypeValidation))
	assert.False(t, IsType(wrapped, ErrTypeConfig))
	assert.False(t, IsType(errors.New("plain"), ErrTypeStorage))
	assert.False(t, IsType(nil, ErrTypeStorage))
}
