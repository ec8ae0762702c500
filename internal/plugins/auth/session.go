package auth

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/aitutor/academy/internal/apperror"
)

// Cookie names carrying the two session tokens.
const (
	AccessCookieName  = "access"
	RefreshCookieName = "refresh"
)

// CookieStore is the per-request cookie jar the session manager reads and
// writes. A value set earlier in the same request must be visible to Get.
type CookieStore interface {
	Get(name string) (string, bool)
	Set(cookie *http.Cookie)
	Delete(name string)
}

// UserFinder loads users by id. UserRepository satisfies it.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*User, error)
}

// SessionConfig controls token lifetimes and cookie flags.
type SessionConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Secure marks cookies HTTPS-only. Set in production.
	Secure bool
}

// Session describes a token pair that was just written to cookies.
type Session struct {
	UserID           string    `json:"user_id"`
	AccessExpiresAt  time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// SessionStatus is the outcome of resolving the access cookie.
type SessionStatus int

const (
	// SessionNone means there is no access cookie.
	SessionNone SessionStatus = iota

	// SessionInvalid means the access cookie did not verify or its user no
	// longer exists. Callers treat it like SessionNone.
	SessionInvalid

	// SessionActive means the cookie verified and the user was loaded.
	SessionActive
)

// String returns a short label for logs.
func (s SessionStatus) String() string {
	switch s {
	case SessionNone:
		return "none"
	case SessionInvalid:
		return "invalid"
	case SessionActive:
		return "active"
	}
	return fmt.Sprintf("SessionStatus(%d)", int(s))
}

// SessionManager moves session tokens between the TokenIssuer and the
// access/refresh cookies. It holds no per-session state.
type SessionManager struct {
	tokens *TokenIssuer
	users  UserFinder
	cfg    SessionConfig
	now    func() time.Time
}

// NewSessionManager creates a session manager.
func NewSessionManager(tokens *TokenIssuer, users UserFinder, cfg SessionConfig) *SessionManager {
	return &SessionManager{
		tokens: tokens,
		users:  users,
		cfg:    cfg,
		now:    time.Now,
	}
}

// SetSessionCookies issues an access and a refresh token for user and
// writes both cookies.
func (m *SessionManager) SetSessionCookies(store CookieStore, user *User) (*Session, error) {
	return m.writePair(store, PayloadFor(user))
}

// ClearSessionCookies deletes both session cookies. Clearing an absent
// cookie is not an error. Tokens already handed out stay valid until they
// expire.
func (m *SessionManager) ClearSessionCookies(store CookieStore) {
	store.Delete(AccessCookieName)
	store.Delete(RefreshCookieName)
}

// Refresh mints a new token pair from the refresh cookie without checking
// the password again. It fails with NoSession when the cookie is missing and
// InvalidToken when it does not verify.
func (m *SessionManager) Refresh(store CookieStore) (*Session, error) {
	raw, ok := store.Get(RefreshCookieName)
	if !ok || raw == "" {
		return nil, apperror.NewNoSession()
	}

	payload, err := m.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}

	return m.writePair(store, *payload)
}

// Resolve reads the access cookie and loads its user. A missing cookie
// yields SessionNone. A token that fails verification, or names a user that
// no longer exists, yields SessionInvalid. Neither is an error; only a
// failure to reach the user store is.
func (m *SessionManager) Resolve(ctx context.Context, store CookieStore) (*User, SessionStatus, error) {
	raw, ok := store.Get(AccessCookieName)
	if !ok || raw == "" {
		return nil, SessionNone, nil
	}

	payload, err := m.tokens.Verify(raw)
	if err != nil {
		return nil, SessionInvalid, nil
	}

	user, err := m.users.FindByID(ctx, payload.UserID)
	if err != nil {
		if apperror.Is(err, apperror.TypeNotFound) {
			return nil, SessionInvalid, nil
		}
		return nil, SessionNone, apperror.NewInternal(fmt.Errorf("loading session user: %w", err))
	}

	return user, SessionActive, nil
}

// GetCurrentUser returns the signed-in user, or nil when the request is
// anonymous or carries an invalid or expired access token.
func (m *SessionManager) GetCurrentUser(ctx context.Context, store CookieStore) (*User, error) {
	user, _, err := m.Resolve(ctx, store)
	return user, err
}

// writePair issues both tokens for payload and stores them as cookies.
func (m *SessionManager) writePair(store CookieStore, payload TokenPayload) (*Session, error) {
	access, err := m.tokens.Issue(payload, m.cfg.AccessTTL)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("issuing access token: %w", err))
	}
	refresh, err := m.tokens.Issue(payload, m.cfg.RefreshTTL)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("issuing refresh token: %w", err))
	}

	store.Set(m.cookie(AccessCookieName, access, m.cfg.AccessTTL))
	store.Set(m.cookie(RefreshCookieName, refresh, m.cfg.RefreshTTL))

	now := m.now()
	return &Session{
		UserID:           payload.UserID,
		AccessExpiresAt:  now.Add(m.cfg.AccessTTL),
		RefreshExpiresAt: now.Add(m.cfg.RefreshTTL),
	}, nil
}

// cookie builds a session cookie whose max-age matches the token lifetime.
func (m *SessionManager) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// HasPermission reports whether user holds one of roles. A nil user has no
// permissions.
func HasPermission(user *User, roles ...Role) bool {
	if user == nil {
		return false
	}
	return slices.Contains(roles, user.Role)
}
