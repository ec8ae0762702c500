package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// contextKeyCookies caches the request's cookie store on the Echo context so
// middleware and handlers share one pending-write overlay.
const contextKeyCookies = "auth_cookie_store"

// EchoCookieStore is a CookieStore over an Echo request/response pair.
// Writes go to the response immediately and are also kept in an overlay, so
// a Get later in the same request sees them instead of the request cookie.
type EchoCookieStore struct {
	c       echo.Context
	secure  bool
	pending map[string]*string // nil value means deleted
}

// Cookies returns the cookie store for the current request.
func (m *SessionManager) Cookies(c echo.Context) CookieStore {
	return cookieStoreFor(c, m.cfg.Secure)
}

// cookieStoreFor returns the request's cached store, creating it on first use.
func cookieStoreFor(c echo.Context, secure bool) *EchoCookieStore {
	if s, ok := c.Get(contextKeyCookies).(*EchoCookieStore); ok {
		return s
	}
	s := &EchoCookieStore{c: c, secure: secure, pending: make(map[string]*string)}
	c.Set(contextKeyCookies, s)
	return s
}

// Get returns the cookie value, preferring values written during this request.
func (s *EchoCookieStore) Get(name string) (string, bool) {
	if v, ok := s.pending[name]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	cookie, err := s.c.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

// Set writes cookie to the response.
func (s *EchoCookieStore) Set(cookie *http.Cookie) {
	s.c.SetCookie(cookie)
	if cookie.MaxAge < 0 {
		s.pending[cookie.Name] = nil
		return
	}
	v := cookie.Value
	s.pending[cookie.Name] = &v
}

// Delete expires the cookie on the client.
func (s *EchoCookieStore) Delete(name string) {
	s.Set(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
