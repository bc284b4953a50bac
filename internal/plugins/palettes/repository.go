package palettes

import (
	"context"
	"fmt"

	"github.com/keyxmakerx/devpalette/internal/colorutil"
	"github.com/keyxmakerx/devpalette/internal/kvstore"
)

// PaletteRepository loads and stores a user's whole palette collection.
type PaletteRepository interface {
	List(ctx context.Context, userID string) ([]colorutil.Palette, error)
	Save(ctx context.Context, userID string, palettes []colorutil.Palette) error
}

// kvPaletteRepository implements PaletteRepository on a kvstore.Store.
type kvPaletteRepository struct {
	store kvstore.Store
}

// NewPaletteRepository creates a palette repository backed by store.
func NewPaletteRepository(store kvstore.Store) PaletteRepository {
	return &kvPaletteRepository{store: store}
}

// List returns the stored palettes, or an empty slice for a new user.
func (r *kvPaletteRepository) List(ctx context.Context, userID string) ([]colorutil.Palette, error) {
	palettes := []colorutil.Palette{}
	if _, err := kvstore.GetJSON(ctx, r.store, kvstore.UserKey(kvstore.PalettesKey, userID), &palettes); err != nil {
		return nil, fmt.Errorf("loading palettes: %w", err)
	}
	return palettes, nil
}

// Save replaces the stored palettes.
func (r *kvPaletteRepository) Save(ctx context.Context, userID string, palettes []colorutil.Palette) error {
	if palettes == nil {
		palettes = []colorutil.Palette{}
	}
	if err := kvstore.SetJSON(ctx, r.store, kvstore.UserKey(kvstore.PalettesKey, userID), palettes); err != nil {
		return fmt.Errorf("saving palettes: %w", err)
	}
	return nil
}
