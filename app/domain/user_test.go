package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, UserRoleAdmin.IsValid())
	assert.True(t, UserRoleUser.IsValid())
	assert.False(t, UserRole("superuser").IsValid())
	assert.False(t, UserRole("").IsValid())
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: UserRoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: UserRoleUser}).IsAdmin())
}

func TestUser_SubjectID(t *testing.T) {
	sub := "sub-1"
	assert.Equal(t, "sub-1", (&User{CognitoSub: &sub}).SubjectID())
	assert.Empty(t, (&User{}).SubjectID())
}

func TestCreateUserParams_Validate(t *testing.T) {
	valid := CreateUserParams{Username: "a@example.com", Email: "a@example.com"}
	assert.NoError(t, valid.Validate())

	missingUsername := CreateUserParams{Email: "a@example.com"}
	assert.Error(t, missingUsername.Validate())

	missingEmail := CreateUserParams{Username: "a"}
	assert.Error(t, missingEmail.Validate())

	badEmail := CreateUserParams{Username: "a", Email: "not-an-email"}
	assert.Error(t, badEmail.Validate())

	badRole := CreateUserParams{Username: "a", Email: "a@example.com", Role: "superuser"}
	assert.Error(t, badRole.Validate())
}

func TestUpdateUserParams_IsEmpty(t *testing.T) {
	assert.True(t, (&UpdateUserParams{}).IsEmpty())

	name := "Name"
	assert.False(t, (&UpdateUserParams{FullName: &name}).IsEmpty())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestValidateEmail(t *testing.T) {
	email, err := ValidateEmail(" User@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)

	_, err = ValidateEmail("")
	assert.Error(t, err)

	_, err = ValidateEmail("not-an-email")
	assert.Error(t, err)
}

func TestTokenClaims_HasIdentity(t *testing.T) {
	assert.True(t, (&TokenClaims{Username: "u"}).HasIdentity())
	assert.True(t, (&TokenClaims{Sub: "s"}).HasIdentity())
	assert.False(t, (&TokenClaims{Email: "e@example.com"}).HasIdentity())

	var nilClaims *TokenClaims
	assert.False(t, nilClaims.HasIdentity())
}
