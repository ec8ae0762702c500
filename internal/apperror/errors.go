// Package apperror provides domain-specific error types for Academy.
// These errors carry an HTTP status code and a user-safe message. The Echo
// error handler maps them to appropriate HTTP responses automatically.
//
// NEVER return raw database or infrastructure errors to the client. Always
// wrap them in an apperror type or return a generic internal error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error types for the session and identity layer.
const (
	TypeNotFound           = "not_found"
	TypeDuplicateAccount   = "duplicate_account"
	TypeInvalidCredentials = "invalid_credentials"
	TypeInvalidToken       = "invalid_token"
	TypeNoSession          = "no_session"
)

// AppError is the base error type for all domain errors. It carries an
// HTTP status code, a machine-readable error type, and a human-readable
// message safe to show to the client.
type AppError struct {
	// Code is the HTTP status code (e.g., 404, 400, 500).
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "not_found").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is reports whether err is (or wraps) an AppError of the given type.
func Is(err error, errType string) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Type == errType
}

// --- Constructors for common error types ---

// NewNotFound creates a 404 Not Found error.
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    TypeNotFound,
		Message: message,
	}
}

// NewBadRequest creates a 400 Bad Request error.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "bad_request",
		Message: message,
	}
}

// NewUnauthorized creates a 401 Unauthorized error.
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    "unauthorized",
		Message: message,
	}
}

// NewForbidden creates a 403 Forbidden error.
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Type:    "forbidden",
		Message: message,
	}
}

// NewValidation creates a 422 Unprocessable Entity error for validation failures.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Type:    "validation_error",
		Message: message,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "An unexpected error occurred. Please try again.",
		Internal: err,
	}
}

// --- Session and identity errors ---

// NewDuplicateAccount creates a 409 error for a registration whose email
// already belongs to an account.
func NewDuplicateAccount() *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Type:    TypeDuplicateAccount,
		Message: "an account with this email already exists",
	}
}

// NewInvalidCredentials creates a 401 error for a failed login. Unknown
// email and wrong password share this error so callers cannot probe which
// emails are registered.
func NewInvalidCredentials() *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    TypeInvalidCredentials,
		Message: "invalid email or password",
	}
}

// NewInvalidToken creates a 401 error for a token that is malformed,
// carries a bad signature, or has expired.
func NewInvalidToken(cause error) *AppError {
	return &AppError{
		Code:     http.StatusUnauthorized,
		Type:     TypeInvalidToken,
		Message:  "session token is invalid or expired",
		Internal: cause,
	}
}

// NewNoSession creates a 401 error for a refresh attempted without a
// refresh cookie.
func NewNoSession() *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    TypeNoSession,
		Message: "no active session",
	}
}
