// Package apperr defines the error kinds shared by the course platform.
// Callers wrap these sentinels with fmt.Errorf("...: %w") and the HTTP layer
// maps them to status codes with errors.Is.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrUnknownContentType    = errors.New("unknown content type")
	ErrValidationFailed      = errors.New("validation failed")
	ErrDuplicateResource     = errors.New("duplicate resource")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrGradingNotImplemented = errors.New("grading not implemented")
)

// ValidationError carries field level messages. It matches ErrValidationFailed.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Field builds a ValidationError for a single field.
func Field(name, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{name: msg}}
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
