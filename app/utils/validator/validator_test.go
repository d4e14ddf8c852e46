package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUpPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Code     string `json:"code" validate:"omitempty,confirmation_code"`
	Role     string `json:"role" validate:"omitempty,user_role"`
}

func TestValidator_ValidPayload(t *testing.T) {
	v := New()

	err := v.Validate(&signUpPayload{
		Email:    "user@example.com",
		Password: "Password1!",
		Code:     "123456",
		Role:     "admin",
	})
	assert.NoError(t, err)
}

func TestValidator_FieldErrorsUseJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(&signUpPayload{Email: "nope", Password: "Password1!"})
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, validationErr.Errors, "email")
}

func TestValidator_PasswordRule(t *testing.T) {
	v := New()

	assert.Error(t, v.Validate(&signUpPayload{Email: "a@example.com", Password: "short"}))
	assert.Error(t, v.Validate(&signUpPayload{Email: "a@example.com", Password: strings.Repeat("x", 129)}))
	assert.NoError(t, v.Validate(&signUpPayload{Email: "a@example.com", Password: "exactly8c"}))
}

func TestValidator_ConfirmationCodeRule(t *testing.T) {
	v := New()

	base := signUpPayload{Email: "a@example.com", Password: "Password1!"}

	for _, code := range []string{"123456", "000000"} {
		p := base
		p.Code = code
		assert.NoError(t, v.Validate(&p), code)
	}

	for _, code := range []string{"12345", "1234567", "12a456", "abcdef"} {
		p := base
		p.Code = code
		assert.Error(t, v.Validate(&p), code)
	}
}

func TestValidator_UserRoleRule(t *testing.T) {
	v := New()

	base := signUpPayload{Email: "a@example.com", Password: "Password1!"}

	for _, role := range []string{"admin", "user"} {
		p := base
		p.Role = role
		assert.NoError(t, v.Validate(&p), role)
	}

	p := base
	p.Role = "superuser"
	assert.Error(t, v.Validate(&p))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@example.com"))
	assert.False(t, IsValidEmail("nope"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("longenough"))
	assert.False(t, IsValidPassword("short"))
}

func TestValidationError_Message(t *testing.T) {
	v := New()

	err := v.Validate(&signUpPayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
