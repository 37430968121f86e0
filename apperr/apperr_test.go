package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatchesKind(t *testing.T) {
	err := fmt.Errorf("create text: %w", Field("content", "Content is required!"))

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.False(t, errors.Is(err, ErrNotFound))

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "Content is required!", verr.Fields["content"])
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := NewValidationError(map[string]string{"b": "two", "a": "one"})
	assert.Equal(t, "validation failed: a: one; b: two", err.Error())
}
