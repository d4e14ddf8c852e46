package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"identity-service/app/domain"
	"identity-service/app/mocks"
	apperrors "identity-service/app/utils/errors"
)

func newAuthMiddlewareFixture(t *testing.T) (*AuthMiddleware, *mocks.MockAuthUsecase) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthUsecase(ctrl)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthMiddleware(auth, logger), auth
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, reached
}

func TestRequireAuth_ValidToken(t *testing.T) {
	mw, auth := newAuthMiddlewareFixture(t)

	user := &domain.User{ID: 1, Username: "a@example.com", IsActive: true, Role: domain.UserRoleUser}
	auth.EXPECT().Authenticate(gomock.Any(), "good-token").Return(user, nil)

	rec, reached := runMiddleware(t, mw.RequireAuth(), "Bearer good-token")
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	mw, _ := newAuthMiddlewareFixture(t)

	rec, reached := runMiddleware(t, mw.RequireAuth(), "")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestRequireAuth_WrongScheme(t *testing.T) {
	mw, _ := newAuthMiddlewareFixture(t)

	rec, reached := runMiddleware(t, mw.RequireAuth(), "Basic dXNlcjpwdw==")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	mw, auth := newAuthMiddlewareFixture(t)

	auth.EXPECT().Authenticate(gomock.Any(), "bad-token").Return(nil, apperrors.ErrInvalidToken)

	rec, reached := runMiddleware(t, mw.RequireAuth(), "Bearer bad-token")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "could not validate credentials", resp["error"])
}

func TestRequireAuth_InactiveUser(t *testing.T) {
	mw, auth := newAuthMiddlewareFixture(t)

	auth.EXPECT().Authenticate(gomock.Any(), "token").Return(nil, apperrors.ErrUserInactive)

	rec, reached := runMiddleware(t, mw.RequireAuth(), "Bearer token")
	assert.False(t, reached)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	mw, auth := newAuthMiddlewareFixture(t)

	auth.EXPECT().Authenticate(gomock.Any(), "token").Return(nil, apperrors.ErrUserNotFound)

	rec, reached := runMiddleware(t, mw.RequireAuth(), "Bearer token")
	assert.False(t, reached)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func runRoleCheck(t *testing.T, mw echo.MiddlewareFunc, user *domain.User) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(userContextKey, user)
	}

	reached := false
	handler := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, reached
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	mw, _ := newAuthMiddlewareFixture(t)

	admin := &domain.User{ID: 1, Role: domain.UserRoleAdmin, IsActive: true}
	rec, reached := runRoleCheck(t, mw.RequireAdmin(), admin)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_RejectsUser(t *testing.T) {
	mw, _ := newAuthMiddlewareFixture(t)

	user := &domain.User{ID: 2, Role: domain.UserRoleUser, IsActive: true}
	rec, reached := runRoleCheck(t, mw.RequireAdmin(), user)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_NoUserInContext(t *testing.T) {
	mw, _ := newAuthMiddlewareFixture(t)

	rec, reached := runRoleCheck(t, mw.RequireRole(domain.UserRoleUser), nil)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerToken(t *testing.T) {
	e := echo.New()

	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"bearer abc123", "abc123", true},
		{"Bearer ", "", false},
		{"abc123", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set(echo.HeaderAuthorization, tt.header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		token, ok := bearerToken(c)
		assert.Equal(t, tt.ok, ok, "header %q", tt.header)
		assert.Equal(t, tt.token, token, "header %q", tt.header)
	}
}
