package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"identity-service/app/domain"
	"identity-service/app/utils/validator"

	apperrors "identity-service/app/utils/errors"
)

// UserResponse is the public shape of a user record
type UserResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name,omitempty"`
	Role     string  `json:"role"`
	IsActive bool    `json:"is_active"`
	UserSub  string  `json:"user_sub,omitempty"`
}

func toUserResponse(user *domain.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
		IsActive: user.IsActive,
		UserSub:  user.SubjectID(),
	}
}

// respondError maps domain errors to JSON error responses
func respondError(c echo.Context, err error) error {
	if validationErr, ok := err.(*validator.ValidationError); ok {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"code":   string(apperrors.ErrCodeValidationFailed),
			"fields": validationErr.Errors,
		})
	}

	if provErr, ok := apperrors.AsProviderError(err); ok {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": provErr.Message,
			"code":  string(apperrors.ErrCodeProviderError),
		})
	}

	if appErr, ok := apperrors.AsAppError(err); ok {
		return c.JSON(appErr.StatusCode, map[string]interface{}{
			"error": appErr.Message,
			"code":  string(appErr.Code),
		})
	}

	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": "an unexpected error occurred. Please try again.",
		"code":  string(apperrors.ErrCodeInternalError),
	})
}

// respondCredentialError is respondError with one twist: a provider
// rejection of a credential exchange comes back as 401, not 400.
func respondCredentialError(c echo.Context, err error) error {
	if provErr, ok := apperrors.AsProviderError(err); ok {
		c.Response().Header().Set("WWW-Authenticate", "Bearer")
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error": provErr.Message,
			"code":  string(apperrors.ErrCodeUnauthorized),
		})
	}
	return respondError(c, err)
}
