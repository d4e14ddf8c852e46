package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"identity-service/app/domain"
	"identity-service/app/port"
	apperrors "identity-service/app/utils/errors"
)

// userContextKey is where RequireAuth stores the resolved user
const userContextKey = "current_user"

type AuthMiddleware struct {
	auth   port.AuthUsecase
	logger *slog.Logger
}

// NewAuthMiddleware creates authentication middleware backed by the auth usecase
func NewAuthMiddleware(auth port.AuthUsecase, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   auth,
		logger: logger.With("component", "auth_middleware"),
	}
}

// RequireAuth validates the bearer token and stores the resolved local user
// in the request context. Requests without a usable token get 401.
func (m *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return unauthorized(c, "authentication required")
			}

			user, err := m.auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				m.logger.Debug("authentication rejected", "error", err)
				return respondAuthError(c, err)
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireRole allows only users holding one of the given roles. Must run
// after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...domain.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return unauthorized(c, "authentication required")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}

			m.logger.Warn("role check failed",
				"user_id", user.ID,
				"role", user.Role,
				"path", c.Request().URL.Path)
			return c.JSON(http.StatusForbidden, map[string]interface{}{
				"error": "not enough permissions",
				"code":  string(apperrors.ErrCodeForbidden),
			})
		}
	}
}

// RequireAdmin allows only admin users
func (m *AuthMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return m.RequireRole(domain.UserRoleAdmin)
}

// CurrentUser returns the authenticated user stored by RequireAuth, or nil
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userContextKey).(*domain.User)
	return user
}

// bearerToken extracts the token from the Authorization header. Only the
// Bearer scheme is accepted.
func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c echo.Context, message string) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return c.JSON(http.StatusUnauthorized, map[string]interface{}{
		"error": message,
		"code":  string(apperrors.ErrCodeUnauthorized),
	})
}

func respondAuthError(c echo.Context, err error) error {
	status := apperrors.GetHTTPStatusCode(err)
	message := "could not validate credentials"
	code := apperrors.GetErrorCode(err)

	if appErr, ok := apperrors.AsAppError(err); ok {
		message = appErr.Message
	}
	if status == http.StatusUnauthorized {
		c.Response().Header().Set("WWW-Authenticate", "Bearer")
	}

	return c.JSON(status, map[string]interface{}{
		"error": message,
		"code":  string(code),
	})
}
