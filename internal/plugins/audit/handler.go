package audit

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aitutor/academy/internal/apperror"
	"github.com/aitutor/academy/internal/plugins/auth"
)

// Handler handles HTTP requests for login history. Handlers are thin:
// bind request, call service, render response. No business logic lives here.
type Handler struct {
	service AuditService
}

// NewHandler creates a new audit handler.
func NewHandler(service AuditService) *Handler {
	return &Handler{service: service}
}

// MyLogins returns the signed-in user's login history (GET /api/me/logins).
func (h *Handler) MyLogins(c echo.Context) error {
	userID := auth.GetUserID(c)
	if userID == "" {
		return apperror.NewUnauthorized("authentication required")
	}
	return h.list(c, userID)
}

// UserLogins returns any user's login history (GET /api/admin/users/:id/logins).
// Restricted to admins via route middleware.
func (h *Handler) UserLogins(c echo.Context) error {
	return h.list(c, c.Param("id"))
}

func (h *Handler) list(c echo.Context, userID string) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))

	result, err := h.service.ListLogins(c.Request().Context(), userID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
