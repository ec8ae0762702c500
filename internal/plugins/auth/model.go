// Package auth is the session and identity layer for Academy. It stores
// credentials (bcrypt hashes in MariaDB), issues and verifies signed
// access/refresh tokens, and carries those tokens in HTTP-only cookies.
// Sessions are stateless: nothing about a session is kept server-side.
//
// This is a CORE plugin -- always enabled, cannot be disabled.
package auth

import (
	"time"
)

// Role is the authorization tier attached to a user.
type Role string

// Known roles. The users.role column ENUM must list the same values.
const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Defaults for the subscription row created alongside every new user.
const (
	PlanFree           = "FREE"
	SubscriptionActive = "ACTIVE"
)

// User represents a registered account. PasswordHash never leaves this
// package in a response: it is excluded from JSON.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  *string   `json:"name,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Name returns the display name, or "" when none was given.
func (u *User) Name() string {
	if u.DisplayName == nil {
		return ""
	}
	return *u.DisplayName
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the data submitted to the registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Name     string `json:"name" form:"name"`
}

// LoginRequest holds the data submitted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// --- Service Input DTOs (passed from handler to service) ---

// ClientInfo describes where a login attempt came from. It is copied into
// the login history.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// RegisterInput is the validated input for creating a new user.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Client   ClientInfo
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
	Client   ClientInfo
}

// --- Tokens ---

// TokenPayload is the identity carried inside a signed session token.
type TokenPayload struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Name   string `json:"name,omitempty"`
}

// PayloadFor builds the token payload for a user.
func PayloadFor(u *User) TokenPayload {
	return TokenPayload{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		Name:   u.Name(),
	}
}
