package colors

import (
	"context"
	"fmt"

	"github.com/keyxmakerx/devpalette/internal/colorutil"
	"github.com/keyxmakerx/devpalette/internal/kvstore"
)

// ColorRepository loads and stores a user's whole color collection.
type ColorRepository interface {
	List(ctx context.Context, userID string) ([]colorutil.Color, error)
	Save(ctx context.Context, userID string, colors []colorutil.Color) error
	Clear(ctx context.Context, userID string) error
}

// kvColorRepository implements ColorRepository on a kvstore.Store.
type kvColorRepository struct {
	store kvstore.Store
}

// NewColorRepository creates a color repository backed by store.
func NewColorRepository(store kvstore.Store) ColorRepository {
	return &kvColorRepository{store: store}
}

// List returns the stored collection, or an empty slice for a new user.
func (r *kvColorRepository) List(ctx context.Context, userID string) ([]colorutil.Color, error) {
	colors := []colorutil.Color{}
	if _, err := kvstore.GetJSON(ctx, r.store, kvstore.UserKey(kvstore.ColorsKey, userID), &colors); err != nil {
		return nil, fmt.Errorf("loading colors: %w", err)
	}
	return colors, nil
}

// Save replaces the stored collection.
func (r *kvColorRepository) Save(ctx context.Context, userID string, colors []colorutil.Color) error {
	if colors == nil {
		colors = []colorutil.Color{}
	}
	if err := kvstore.SetJSON(ctx, r.store, kvstore.UserKey(kvstore.ColorsKey, userID), colors); err != nil {
		return fmt.Errorf("saving colors: %w", err)
	}
	return nil
}

// Clear removes the collection entirely.
func (r *kvColorRepository) Clear(ctx context.Context, userID string) error {
	if err := r.store.Delete(ctx, kvstore.UserKey(kvstore.ColorsKey, userID)); err != nil {
		return fmt.Errorf("clearing colors: %w", err)
	}
	return nil
}
