package auth

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/aitutor/academy/internal/apperror"
	"github.com/aitutor/academy/internal/sanitize"
)

// Input limits enforced before the service is called.
const (
	maxEmailLen     = 255
	minPasswordLen  = 8
	maxPasswordLen  = 72 // bcrypt ignores anything longer
	maxNameLen      = 100
	maxUserAgentLen = 512
)

// Handler handles the JSON auth endpoints (register, login, logout,
// refresh, me). Handlers are thin: they bind the request, call the service,
// and write cookies and the response. No business logic lives here.
type Handler struct {
	service  AuthService
	sessions *SessionManager
}

// NewHandler creates a new auth handler.
func NewHandler(service AuthService, sessions *SessionManager) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Register creates an account and signs it in (POST /api/auth/register).
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if err := validateRegister(req); err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Client:   clientInfo(c),
	})
	if err != nil {
		return err
	}

	if _, err := h.sessions.SetSessionCookies(h.sessions.Cookies(c), user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Login checks credentials and sets the session cookies (POST /api/auth/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperror.NewValidation("email and password are required")
	}

	user, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Client:   clientInfo(c),
	})
	if err != nil {
		return err
	}

	if _, err := h.sessions.SetSessionCookies(h.sessions.Cookies(c), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Logout clears the session cookies (POST /api/auth/logout). It succeeds
// whether or not a session was present.
func (h *Handler) Logout(c echo.Context) error {
	h.sessions.ClearSessionCookies(h.sessions.Cookies(c))
	return c.NoContent(http.StatusNoContent)
}

// Refresh re-issues both tokens from the refresh cookie (POST /api/auth/refresh).
func (h *Handler) Refresh(c echo.Context) error {
	session, err := h.sessions.Refresh(h.sessions.Cookies(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

// Me returns the signed-in user (GET /api/auth/me).
func (h *Handler) Me(c echo.Context) error {
	user := GetUser(c)
	if user == nil {
		return apperror.NewUnauthorized("authentication required")
	}
	return c.JSON(http.StatusOK, user)
}

// validateRegister checks field presence and lengths.
func validateRegister(req RegisterRequest) error {
	email := strings.TrimSpace(req.Email)
	switch {
	case email == "":
		return apperror.NewValidation("email is required")
	case len(email) > maxEmailLen:
		return apperror.NewValidation("email is too long")
	case !strings.Contains(email, "@"):
		return apperror.NewValidation("email is not valid")
	case len(req.Password) < minPasswordLen:
		return apperror.NewValidation("password must be at least 8 characters")
	case len(req.Password) > maxPasswordLen:
		return apperror.NewValidation("password must be at most 72 bytes")
	case utf8.RuneCountInString(sanitize.Text(req.Name)) > maxNameLen:
		return apperror.NewValidation("name must be at most 100 characters")
	}
	return nil
}

// clientInfo captures the caller's address and user agent for login history.
func clientInfo(c echo.Context) ClientInfo {
	ua := c.Request().UserAgent()
	if len(ua) > maxUserAgentLen {
		ua = strings.ToValidUTF8(ua[:maxUserAgentLen], "")
	}
	return ClientInfo{
		IPAddress: c.RealIP(),
		UserAgent: ua,
	}
}
