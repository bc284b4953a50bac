package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisStore implements Store on Redis. Every key is namespaced with prefix
// so several deployments can share one Redis database.
type redisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Store backed by the given Redis client. Keys never
// expire; collections live until the user clears them or deletes the account.
func NewRedisStore(client redis.UniversalClient, prefix string) Store {
	return &redisStore{client: client, prefix: prefix}
}

// Get returns the raw value at key or ErrNotFound.
func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s from Redis: %w", key, err)
	}
	return data, nil
}

// Set stores value at key with no expiry.
func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("writing %s to Redis: %w", key, err)
	}
	return nil
}

// SetMany writes all values in one MULTI/EXEC transaction.
func (s *redisStore) SetMany(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, s.prefix+k, v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing %d keys to Redis: %w", len(values), err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("deleting keys from Redis: %w", err)
	}
	return nil
}
