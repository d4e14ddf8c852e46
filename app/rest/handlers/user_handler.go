package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"identity-service/app/domain"
	"identity-service/app/port"
	"identity-service/app/utils/validator"

	apperrors "identity-service/app/utils/errors"
)

// UserHandler serves the user directory endpoints
type UserHandler struct {
	users     port.UserUsecase
	validator *validator.Validator
	logger    *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users port.UserUsecase, v *validator.Validator, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:     users,
		validator: v,
		logger:    logger.With("component", "user_handler"),
	}
}

// UpdateUserRequest is a partial update payload. Absent fields stay as-is.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	IsActive *bool   `json:"is_active"`
	Role     *string `json:"role" validate:"omitempty,user_role"`
}

// ListResponse wraps a page of users with the total count
type ListResponse struct {
	Users []*UserResponse `json:"users"`
	Total int64           `json:"total"`
	Skip  int             `json:"skip"`
	Limit int             `json:"limit"`
}

// List handles GET /users/
func (h *UserHandler) List(c echo.Context) error {
	skip := intQuery(c, "skip", 0)
	limit := intQuery(c, "limit", 100)

	users, err := h.users.ListUsers(c.Request().Context(), skip, limit)
	if err != nil {
		return respondError(c, err)
	}

	total, err := h.users.CountUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}

	return c.JSON(http.StatusOK, ListResponse{
		Users: responses,
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.users.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update handles PATCH /users/:id, admin only
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.ErrBadRequest)
	}
	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, err)
	}

	params := domain.UpdateUserParams{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := domain.UserRole(*req.Role)
		params.Role = &role
	}

	user, err := h.users.UpdateUser(c.Request().Context(), id, params)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete handles DELETE /users/:id, admin only
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid user id")
	}
	return id, nil
}

func intQuery(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
