package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleDTO struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
	Role  string `json:"role" validate:"required,oneof=patient caregiver"`
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(&sampleDTO{Email: "a@b.com", Code: "123456", Role: "patient"})
	assert.NoError(t, err)
}

// TestValidate_FieldNamesFromJSONTags - в ошибках имена из json-тегов
func TestValidate_FieldNamesFromJSONTags(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(&sampleDTO{Email: "not-an-email", Code: "12", Role: "admin"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "code")
	assert.Contains(t, vErr.Errors, "role")
	assert.Contains(t, vErr.Errors["role"], "patient, caregiver")
}
