// Package audit records login history. Every login attempt against a known
// account, and every registration, is written to the login_history table;
// users can read back their own history and admins anyone's.
//
// Entries are append-only: nothing in this package updates or deletes them.
package audit

import "time"

// LoginEntry is one recorded login attempt.
type LoginEntry struct {
	ID int64 `json:"id"`

	// UserID is nil when the attempt could not be linked to an account.
	UserID *string `json:"user_id,omitempty"`

	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginPage is one page of a user's login history, newest first.
type LoginPage struct {
	Entries []LoginEntry `json:"entries"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}
