// Package kvstore is the key-value persistence used for per-user color and
// palette collections. Values are opaque bytes; GetJSON and SetJSON cover the
// common case of storing a JSON document under a key.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Storage names for the collections. Each is suffixed with ":<userID>".
const (
	ColorsKey   = "color-palette-colors"
	PalettesKey = "color-palette-palettes"
)

// Store is an injected key-value store. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany stores every value or none of them.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}

// UserKey scopes a storage name to a single user.
func UserKey(name, userID string) string {
	return name + ":" + userID
}

// GetJSON loads key into dst. found is false on a miss, in which case dst is
// left untouched.
func GetJSON(ctx context.Context, s Store, key string, dst any) (found bool, err error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

// SetJSONMany marshals each value and stores them all in one SetMany.
func SetJSONMany(ctx context.Context, s Store, values map[string]any) error {
	encoded := make(map[string][]byte, len(values))
	for key, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		encoded[key] = data
	}
	return s.SetMany(ctx, encoded)
}
