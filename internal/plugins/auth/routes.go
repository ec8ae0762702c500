package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/aitutor/academy/internal/config"
	"github.com/aitutor/academy/internal/middleware"
)

// RegisterRoutes mounts the auth endpoints under /auth on the API group.
// The group is expected to run LoadSession already.
//
// Credential and refresh endpoints are rate-limited per IP to slow down
// brute-force and credential stuffing.
func RegisterRoutes(api *echo.Group, h *Handler, limiter *middleware.RateLimiter, limits config.RateLimitConfig) {
	g := api.Group("/auth")

	g.POST("/register", h.Register, limiter.Limit("register", limits.Register, limits.Window))
	g.POST("/login", h.Login, limiter.Limit("login", limits.Login, limits.Window))
	g.POST("/refresh", h.Refresh, limiter.Limit("refresh", limits.Refresh, limits.Window))
	g.POST("/logout", h.Logout)

	g.GET("/me", h.Me, RequireAuth())
}
