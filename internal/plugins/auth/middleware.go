package auth

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/aitutor/academy/internal/apperror"
)

// Context keys for storing the current user in Echo context. Other plugins
// use the exported getters below instead of reading these directly.
const (
	contextKeyUser   = "auth_user"
	contextKeyUserID = "auth_user_id"
)

// LoadSession returns middleware that resolves the access cookie into the
// current user and stores it in the Echo context. Anonymous requests and
// requests with an invalid or expired token continue without a user; only a
// database failure stops the request.
func LoadSession(m *SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := m.Cookies(c)
			user, status, err := m.Resolve(c.Request().Context(), store)
			if err != nil {
				return err
			}

			switch status {
			case SessionActive:
				c.Set(contextKeyUser, user)
				c.Set(contextKeyUserID, user.ID)
			case SessionInvalid:
				// Drop only the stale access cookie; the refresh cookie
				// may still be able to mint a new pair.
				slog.Debug("ignoring invalid access token",
					slog.String("path", c.Request().URL.Path),
				)
				store.Delete(AccessCookieName)
			}

			return next(c)
		}
	}
}

// RequireAuth returns middleware that rejects anonymous requests with 401.
// LoadSession must run first.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetUser(c) == nil {
				return apperror.NewUnauthorized("authentication required")
			}
			return next(c)
		}
	}
}

// RequireRole returns middleware that allows only users holding one of
// roles. Anonymous requests get 401, signed-in users without the role 403.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUser(c)
			if user == nil {
				return apperror.NewUnauthorized("authentication required")
			}
			if !HasPermission(user, roles...) {
				return apperror.NewForbidden("you do not have permission to access this resource")
			}
			return next(c)
		}
	}
}

// --- Exported getters for other plugins ---

// GetUser retrieves the signed-in user from the Echo context.
// Returns nil if the request is anonymous.
func GetUser(c echo.Context) *User {
	user, ok := c.Get(contextKeyUser).(*User)
	if !ok {
		return nil
	}
	return user
}

// GetUserID retrieves the signed-in user's ID from the Echo context.
// Returns empty string if the request is anonymous.
func GetUserID(c echo.Context) string {
	id, ok := c.Get(contextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}
