package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/devpalette/internal/config"
)

// NewRedis creates a new Redis client from the given config. It parses the
// URL, connects, and pings (with the same startup retry as MariaDB) before
// returning.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	err = pingWithRetry("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// Health pings both backing stores once and joins any failures. Used by the
// /healthz endpoint; either store being down makes the instance unhealthy.
func Health(ctx context.Context, db *sql.DB, rdb redis.UniversalClient) error {
	var errs []error
	if db != nil {
		if err := db.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mariadb: %w", err))
		}
	}
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
