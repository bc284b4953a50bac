// Package database provides connection setup for MariaDB and Redis.
// Both connections are created once at startup and shared across the
// application via dependency injection. MariaDB holds user accounts; Redis
// holds sessions, short-lived auth codes, and the per-user color and palette
// collections. This package owns the connection lifecycle (open, configure
// pool, ping, close).
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// MariaDB driver -- imported for side effect of registering the driver.
	_ "github.com/go-sql-driver/mysql"

	"github.com/keyxmakerx/devpalette/internal/config"
)

// Startup retry policy shared by MariaDB and Redis. Either may still be
// starting when the app container launches during a Compose cold-start.
const (
	maxPingAttempts = 10
	initialBackoff  = 1 * time.Second
	maxBackoff      = 30 * time.Second
	pingTimeout     = 5 * time.Second
)

// sleep is replaced in tests.
var sleep = time.Sleep

// NewMariaDB creates a new MariaDB connection pool configured with the
// settings from the provided config. It pings the database to verify
// connectivity before returning.
func NewMariaDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mariadb connection: %w", err)
	}

	// Configure connection pool settings to prevent connection exhaustion
	// and stale connections under load.
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := pingWithRetry("mariadb", db.PingContext); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// pingWithRetry calls ping until it succeeds or maxPingAttempts is reached,
// doubling the wait between attempts up to maxBackoff.
func pingWithRetry(name string, ping func(context.Context) error) error {
	backoff := initialBackoff
	var pingErr error

	for attempt := 1; attempt <= maxPingAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		pingErr = ping(ctx)
		cancel()

		if pingErr == nil {
			return nil
		}
		if attempt == maxPingAttempts {
			break
		}

		slog.Warn(name+" not ready, retrying...",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", maxPingAttempts),
			slog.Duration("backoff", backoff),
			slog.Any("error", pingErr),
		)
		sleep(backoff)
		backoff = min(backoff*2, maxBackoff)
	}

	return fmt.Errorf("pinging %s after %d attempts: %w", name, maxPingAttempts, pingErr)
}
