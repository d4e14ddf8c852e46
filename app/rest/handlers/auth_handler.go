package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"identity-service/app/port"
	"identity-service/app/rest/middleware"
	"identity-service/app/utils/validator"

	apperrors "identity-service/app/utils/errors"
)

// AuthHandler serves the authentication endpoints
type AuthHandler struct {
	auth      port.AuthUsecase
	validator *validator.Validator
	logger    *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth port.AuthUsecase, v *validator.Validator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		validator: v,
		logger:    logger.With("component", "auth_handler"),
	}
}

// SignUpRequest is the registration payload
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	FullName string `json:"full_name" validate:"omitempty,max=255"`
}

// SignUpResponse acknowledges a registration
type SignUpResponse struct {
	Message       string `json:"message"`
	UserSub       string `json:"user_sub"`
	UserConfirmed bool   `json:"user_confirmed"`
}

// ConfirmSignUpRequest carries the emailed verification code
type ConfirmSignUpRequest struct {
	Email            string `json:"email" validate:"required,email"`
	ConfirmationCode string `json:"confirmation_code" validate:"required,confirmation_code"`
}

// SignInRequest is the credential payload
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest exchanges a refresh token for new session tokens
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
}

// TokenResponse carries the provider session tokens
type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	IDToken      string        `json:"id_token,omitempty"`
	RefreshToken string        `json:"refresh_token,omitempty"`
	ExpiresIn    int32         `json:"expires_in"`
	TokenType    string        `json:"token_type"`
	User         *UserResponse `json:"user,omitempty"`
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.ErrBadRequest)
	}
	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, err)
	}

	result, err := h.auth.SignUp(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		return respondError(c, err)
	}

	message := "registration successful. Please check your email for a verification code"
	if result.UserConfirmed {
		message = "registration successful"
	}

	return c.JSON(http.StatusCreated, SignUpResponse{
		Message:       message,
		UserSub:       result.UserSub,
		UserConfirmed: result.UserConfirmed,
	})
}

// ConfirmSignUp handles POST /auth/confirm-signup
func (h *AuthHandler) ConfirmSignUp(c echo.Context) error {
	var req ConfirmSignUpRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.ErrBadRequest)
	}
	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, err)
	}

	if err := h.auth.ConfirmSignUp(c.Request().Context(), req.Email, req.ConfirmationCode); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "account confirmed successfully",
	})
}

// SignIn handles POST /auth/signin
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.ErrBadRequest)
	}
	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, err)
	}

	result, err := h.auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondCredentialError(c, err)
	}

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  result.Tokens.AccessToken,
		IDToken:      result.Tokens.IDToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
		TokenType:    "Bearer",
		User:         toUserResponse(result.User),
	})
}

// RefreshToken handles POST /auth/refresh-token
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.ErrBadRequest)
	}
	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, err)
	}

	tokens, err := h.auth.RefreshToken(c.Request().Context(), req.RefreshToken, req.Email)
	if err != nil {
		return respondCredentialError(c, err)
	}

	// The refresh grant does not rotate the refresh token, so the response
	// carries only the renewed access and id tokens.
	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: tokens.AccessToken,
		IDToken:     tokens.IDToken,
		ExpiresIn:   tokens.ExpiresIn,
		TokenType:   "Bearer",
	})
}

// Me handles GET /auth/me. RequireAuth has already resolved the user.
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, apperrors.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// SignOut handles POST /auth/signout. Sessions live in provider tokens, so
// the server side has nothing to revoke and the endpoint answers
// unauthenticated callers; the client drops its tokens.
func (h *AuthHandler) SignOut(c echo.Context) error {
	if user := middleware.CurrentUser(c); user != nil {
		h.logger.Info("user signed out", "user_id", user.ID)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "signed out successfully",
	})
}
