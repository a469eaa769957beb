package errors

import (
	"errors"
	"fmt"
	"os"
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
		{name: "encoding error type", errType: ErrTypeEncoding, expected: "ENCODING"},
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "schema error type", errType: ErrTypeSchema, expected: "SCHEMA"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "render error type", errType: ErrTypeRender, expected: "RENDER"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
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
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeSchema,
				Message: "missing column SALES",
			},
			wantMessage: "[SCHEMA] missing column SALES",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "failed to create cleaned file",
				Cause:   fmt.Errorf("permission denied"),
			},
			wantMessage: "[STORAGE] failed to create cleaned file: permission denied",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := NewNotFoundError("input file data/sales.csv", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "[NOT_FOUND] input file data/sales.csv not found: file does not exist", err.Error())
}

func TestAppError_WithContext(t *testing.T) {
	err := NewEncodingError("undecodable cell", nil).
		WithContext("line", 12).
		WithContext("column", "ORDERDATE")

	assert.Equal(t, 12, err.Context["line"])
	assert.Equal(t, "ORDERDATE", err.Context["column"])
}

func TestAppError_WithContext_NilContext(t *testing.T) {
	err := &AppError{Type: ErrTypeParsing, Message: "bad row"}
	err.WithContext("line", 3)

	require.NotNil(t, err.Context)
	assert.Equal(t, 3, err.Context["line"])
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name    string
		err     *AppError
		errType ErrorType
		cause   error
	}{
		{"encoding", NewEncodingError("m", cause), ErrTypeEncoding, cause},
		{"parsing", NewParsingError("m", cause), ErrTypeParsing, cause},
		{"schema", NewSchemaError("m"), ErrTypeSchema, nil},
		{"storage", NewStorageError("m", cause), ErrTypeStorage, cause},
		{"render", NewRenderError("m", cause), ErrTypeRender, cause},
		{"validation", NewAppValidationError("m"), ErrTypeValidation, nil},
		{"not found", NewNotFoundError("m", cause), ErrTypeNotFound, cause},
		{"config", NewConfigError("m", cause), ErrTypeConfig, cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, tt.err.Type)
			assert.Equal(t, tt.cause, tt.err.Cause)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestIsType(t *testing.T) {
	inner := NewEncodingError("invalid byte", nil)
	outer := NewStorageError("load failed", inner)
	wrapped := fmt.Errorf("step load: %w", outer)

	assert.True(t, IsType(wrapped, ErrTypeStorage))
	assert.True(t, IsType(wrapped, ErrTypeEncoding))
	assert.False(t, IsType(wrapped, ErrTypeConfig))
	assert.False(t, IsType(errors.New("plain"), ErrTypeStorage))
	assert.False(t, IsType(nil, ErrTypeStorage))
}
