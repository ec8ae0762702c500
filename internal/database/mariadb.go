// Package database provides connection setup for MariaDB and Redis and
// applies the embedded schema migrations. Connections are created once at
// startup and handed to repositories via dependency injection; nothing in
// the application reaches for a package-level client.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// MariaDB/MySQL driver, registered for database/sql.
	_ "github.com/go-sql-driver/mysql"

	"github.com/aitutor/academy/internal/config"
)

// Connection retry policy for cold starts, when the database container may
// still be booting.
const (
	connectAttempts   = 10
	connectBackoff    = time.Second
	connectMaxBackoff = 30 * time.Second
	pingTimeout       = 5 * time.Second
)

// NewMariaDB opens a connection pool with the settings from cfg and waits
// until the server answers a ping. The returned pool is owned by the caller,
// which must Close it on shutdown.
func NewMariaDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mariadb connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := waitForDB(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// waitForDB pings with exponential backoff until the server responds, the
// attempts run out, or ctx is cancelled.
func waitForDB(ctx context.Context, db *sql.DB) error {
	backoff := connectBackoff
	var pingErr error

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		pingErr = db.PingContext(pingCtx)
		cancel()
		if pingErr == nil {
			return nil
		}
		if attempt == connectAttempts {
			break
		}

		slog.Warn("mariadb not ready, retrying...",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", connectAttempts),
			slog.Duration("backoff", backoff),
			slog.Any("error", pingErr),
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for mariadb: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, connectMaxBackoff)
	}

	return fmt.Errorf("pinging mariadb after %d attempts: %w", connectAttempts, pingErr)
}
