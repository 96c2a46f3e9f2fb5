package validatorx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Key     string `validate:"required,min=8"`
	Backend string `validate:"oneof=postgres redis memory"`
}

func TestStruct_Valid(t *testing.T) {
	require.NoError(t, Struct(sample{Key: "12345678", Backend: "redis"}))
}

func TestStruct_CollectsAllFailures(t *testing.T) {
	err := Struct(sample{Key: "short", Backend: "mysql"})
	require.Error(t, err)

	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Errors, 2)

	assert.Equal(t, "Key", ve.Errors[0].Field)
	assert.Equal(t, "min", ve.Errors[0].Tag)
	assert.Equal(t, "must be at least 8 characters long", ve.Errors[0].Message)

	assert.Equal(t, "Backend", ve.Errors[1].Field)
	assert.Equal(t, "oneof", ve.Errors[1].Tag)

	assert.Contains(t, err.Error(), "validation failed with 2 error(s)")
	assert.Contains(t, err.Error(), "Key: must be at least 8 characters long")
}

func TestStruct_Required(t *testing.T) {
	err := Struct(sample{Backend: "memory"})
	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "is required", ve.Errors[0].Message)
}
