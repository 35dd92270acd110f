package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "simple validation error",
			field:    "email",
			message:  "invalid email format",
			expected: "validation error on field 'email': invalid email format",
		},
		{
			name:     "rating out of range",
			field:    "rating_accuracy",
			message:  "must be between 1 and 5",
			expected: "validation error on field 'rating_accuracy': must be between 1 and 5",
		},
		{
			name:     "empty message",
			field:    "goal",
			message:  "",
			expected: "validation error on field 'goal': ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_IsValidationFailed(t *testing.T) {
	err := fmt.Errorf("register: %w", &ValidationError{Field: "username", Message: "username is required"})

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.False(t, errors.Is(err, ErrNotFound))

	var ve *ValidationError
	if assert.True(t, errors.As(err, &ve)) {
		assert.Equal(t, "username", ve.Field)
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	errs := []error{ErrNotFound, ErrValidationFailed, ErrConflict}
	for i, a := range errs {
		for j, b := range errs {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}
