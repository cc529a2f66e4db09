package keyshape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/keyshape"
)

func TestViolation_String(t *testing.T) {
	tests := []struct {
		v    keyshape.Violation
		want string
	}{
		{keyshape.Violation{Path: "a.b[2]", Message: "is not an integer"}, "a.b[2] is not an integer"},
		{keyshape.Violation{Path: "", Message: "is not a map"}, "Top level is not a map"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String())
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &keyshape.ValidationError{
		Violations: []keyshape.Violation{
			{Path: "a", Message: "is not present"},
			{Path: "b[0]", Message: "is not a string"},
		},
	}
	assert.Equal(t, "a is not present, b[0] is not a string", err.Error())
}

func TestViolations(t *testing.T) {
	ve := &keyshape.ValidationError{
		Violations: []keyshape.Violation{{Path: "a", Message: "is not present"}},
	}
	assert.Len(t, keyshape.Violations(ve), 1)
	assert.Nil(t, keyshape.Violations(assert.AnError))
	assert.Nil(t, keyshape.Violations(nil))
}
