package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// LoginHistoryRepository defines the data access contract for login history.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type LoginHistoryRepository interface {
	// Log inserts a new entry and sets its ID.
	Log(ctx context.Context, entry *LoginEntry) error

	// ListByUser returns a user's entries, most recent first, along with the
	// total count for pagination.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]LoginEntry, int, error)
}

// loginHistoryRepository implements LoginHistoryRepository with MariaDB queries.
type loginHistoryRepository struct {
	db *sql.DB
}

// NewLoginHistoryRepository creates a new repository backed by the given DB pool.
func NewLoginHistoryRepository(db *sql.DB) LoginHistoryRepository {
	return &loginHistoryRepository{db: db}
}

// Log inserts a login history row. A nil UserID is stored as SQL NULL.
func (r *loginHistoryRepository) Log(ctx context.Context, entry *LoginEntry) error {
	query := `INSERT INTO login_history (user_id, ip_address, user_agent, success, created_at)
	          VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		entry.UserID, entry.IPAddress, entry.UserAgent, entry.Success, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting login history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting login history id: %w", err)
	}
	entry.ID = id

	return nil
}

// ListByUser returns a page of a user's login history ordered by most
// recent first.
func (r *loginHistoryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]LoginEntry, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM login_history WHERE user_id = ?`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting login history: %w", err)
	}

	query := `SELECT id, user_id, ip_address, user_agent, success, created_at
	          FROM login_history
	          WHERE user_id = ?
	          ORDER BY created_at DESC, id DESC
	          LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing login history: %w", err)
	}
	defer rows.Close()

	var entries []LoginEntry
	for rows.Next() {
		var e LoginEntry
		var uid sql.NullString
		if err := rows.Scan(&e.ID, &uid, &e.IPAddress, &e.UserAgent, &e.Success, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning login history row: %w", err)
		}
		if uid.Valid {
			e.UserID = &uid.String
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating login history rows: %w", err)
	}

	return entries, total, nil
}
