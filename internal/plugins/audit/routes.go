package audit

import (
	"github.com/labstack/echo/v4"

	"github.com/aitutor/academy/internal/plugins/auth"
)

// RegisterRoutes mounts the login history endpoints on the API group, which
// must already run auth.LoadSession.
func RegisterRoutes(api *echo.Group, h *Handler) {
	api.GET("/me/logins", h.MyLogins, auth.RequireAuth())

	admin := api.Group("/admin", auth.RequireRole(auth.RoleAdmin))
	admin.GET("/users/:id/logins", h.UserLogins)
}
