package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"quickfix/internal/auth"
	"quickfix/internal/errors"
	"quickfix/internal/service"
)

// AdminHandler handles admin moderation endpoints.
type AdminHandler struct {
	userService service.UserService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(userService service.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// ListUsers godoc
// @Summary List all accounts with their roles (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UserSummary
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ident, err := auth.IdentityFromContext(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	users, err := h.userService.ListUsers(c.Request().Context(), ident)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, users)
}
