package validate

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3"`
	Role     string `json:"role" validate:"omitempty,role"`
	Rating   int    `json:"rating" validate:"gte=1,lte=5"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Configure(v)
	return v
}

func TestFormatError(t *testing.T) {
	v := newValidator()

	err := v.Struct(signup{Username: "", Rating: 3})
	assert.Equal(t, "username is required", FormatError(err))

	err = v.Struct(signup{Username: "al", Rating: 3})
	assert.Equal(t, "username must be at least 3", FormatError(err))

	err = v.Struct(signup{Username: "alice", Rating: 9})
	assert.Equal(t, "rating must be less than or equal to 5", FormatError(err))

	assert.Equal(t, "boom", FormatError(errors.New("boom")))
}

func TestRoleRule(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Struct(signup{Username: "alice", Role: "restaurant_owner", Rating: 1}))
	assert.NoError(t, v.Struct(signup{Username: "alice", Rating: 1}))
	assert.Equal(t, "role must be a known role", FormatError(v.Struct(signup{Username: "alice", Role: "root", Rating: 1})))
}
