package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aitutor/academy/internal/middleware"
	"github.com/aitutor/academy/internal/plugins/audit"
	"github.com/aitutor/academy/internal/plugins/auth"
)

// healthTimeout bounds each dependency ping in /healthz.
const healthTimeout = 2 * time.Second

// RegisterRoutes builds the plugins and sets up all application routes.
// This is the single place where routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo
	cfg := a.Config

	// --- Plugins ---
	auditService := audit.NewAuditService(audit.NewLoginHistoryRepository(a.DB))

	userRepo := auth.NewUserRepository(a.DB)
	authService := auth.NewAuthService(userRepo, auditService, cfg.Auth.BcryptCost)
	sessions := auth.NewSessionManager(
		auth.NewTokenIssuer(cfg.Auth.JWTSecret),
		userRepo,
		auth.SessionConfig{
			AccessTTL:  cfg.Auth.AccessTokenTTL,
			RefreshTTL: cfg.Auth.RefreshTokenTTL,
			Secure:     cfg.IsProduction(),
		},
	)
	limiter := middleware.NewRateLimiter(a.Redis)

	// --- Public Routes ---
	e.GET("/healthz", a.health)

	// --- API Routes ---
	// Every API request resolves its session first; individual routes then
	// decide whether a user is required.
	api := e.Group("/api", auth.LoadSession(sessions))
	auth.RegisterRoutes(api, auth.NewHandler(authService, sessions), limiter, cfg.RateLimit)
	audit.RegisterRoutes(api, audit.NewHandler(auditService))
}

// health reports whether MariaDB and Redis are reachable (GET /healthz).
func (a *App) health(c echo.Context) error {
	status := map[string]string{"database": "ok", "redis": "ok"}
	healthy := true

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if err := a.DB.PingContext(ctx); err != nil {
		slog.Warn("health check: database unreachable", slog.Any("error", err))
		status["database"] = "unavailable"
		healthy = false
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		slog.Warn("health check: redis unreachable", slog.Any("error", err))
		status["redis"] = "unavailable"
		healthy = false
	}

	if !healthy {
		status["status"] = "degraded"
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	status["status"] = "ok"
	return c.JSON(http.StatusOK, status)
}
