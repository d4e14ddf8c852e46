package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ErrCodeDatabaseError, "database operation failed", cause)

	assert.Contains(t, err.Error(), "DATABASE_ERROR")
	assert.Contains(t, err.Error(), "boom")
	assert.ErrorIs(t, err, cause)
}

func TestAppError_WithMethodsDoNotMutateSentinels(t *testing.T) {
	derived := ErrInvalidToken.WithDetails("extra").WithCause(errors.New("x")).WithContext("k", "v")

	assert.Empty(t, ErrInvalidToken.Details)
	assert.Nil(t, ErrInvalidToken.Cause)
	assert.Nil(t, ErrInvalidToken.Context)

	assert.Equal(t, "extra", derived.Details)
	assert.NotNil(t, derived.Cause)
	assert.Equal(t, "v", derived.Context["k"])
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrInvalidToken, http.StatusUnauthorized},
		{ErrTokenExpired, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrNotFound, http.StatusNotFound},
		{ErrUserExists, http.StatusBadRequest},
		{ErrUserInactive, http.StatusBadRequest},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrInternalError, http.StatusInternalServerError},
		{ErrDatabaseError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode, tt.err.Code)
	}

	// Duplicate registrations surface as plain client errors
	assert.Equal(t, http.StatusBadRequest, NewConflict("email").StatusCode)
}

func TestGetHTTPStatusCode_UnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatusCode(errors.New("plain")))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeUserNotFound, GetErrorCode(ErrUserNotFound))
	assert.Equal(t, ErrCodeInternalError, GetErrorCode(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", ErrUserExists)
	assert.Equal(t, ErrCodeUserExists, GetErrorCode(wrapped))
}

func TestProviderError(t *testing.T) {
	cause := errors.New("api failure")
	err := NewProviderError("NotAuthorizedException", "incorrect email or password", cause)

	assert.Contains(t, err.Error(), "NotAuthorizedException")
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("sign-in: %w", err)
	provErr, ok := AsProviderError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "NotAuthorizedException", provErr.Code)
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(ErrUserNotFound)
	require.True(t, ok)
	assert.Equal(t, ErrCodeUserNotFound, appErr.Code)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}
