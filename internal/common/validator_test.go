package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := NewValidator()
	assert.True(t, v.Valid())

	v.Check(false, "title", "must be provided")
	v.Check(false, "title", "must be between 1 and 200 characters long")
	v.Check(true, "content", "must be provided")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"title": "must be provided"}, v.Errors)

	var validationErr ValidationError
	assert.True(t, errors.As(v.ValidationError(), &validationErr))
	assert.Equal(t, "must be provided", validationErr.Errors["title"])
}

func TestCheckStringLength(t *testing.T) {
	testCases := []struct {
		input string
		min   int
		max   int
		want  bool
	}{
		{input: "", min: 1, max: 3, want: false},
		{input: "abc", min: 1, max: 3, want: true},
		{input: "abcd", min: 1, max: 3, want: false},
		{input: "héé", min: 1, max: 3, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			v := NewValidator()
			assert.Equal(t, tc.want, v.CheckStringLength(tc.input, tc.min, tc.max))
		})
	}
}

func TestIsUnauthenticated(t *testing.T) {
	assert.True(t, IsUnauthenticated(ErrUnauthenticated))
	assert.True(t, IsUnauthenticated(fmt.Errorf("authenticate: %w", ErrSessionExpired)))
	assert.False(t, IsUnauthenticated(ErrForbidden))
	assert.False(t, IsUnauthenticated(nil))
}
