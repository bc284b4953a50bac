package palettes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/colorutil"
	"github.com/keyxmakerx/devpalette/internal/kvstore"
	"github.com/keyxmakerx/devpalette/internal/plugins/colors"
	"github.com/keyxmakerx/devpalette/internal/sanitize"
)

// PaletteService handles business logic for saved palettes.
type PaletteService interface {
	List(ctx context.Context, userID string) ([]PaletteView, error)
	Get(ctx context.Context, userID, id string) (*PaletteView, error)
	Create(ctx context.Context, userID, name string, colorIDs []string) (*PaletteView, error)
	Delete(ctx context.Context, userID, id string) error
	ToggleFavorite(ctx context.Context, userID, id string) (*PaletteView, error)
	Image(ctx context.Context, userID, id string) ([]byte, error)
	CollectionImage(ctx context.Context, userID string) ([]byte, error)
}

// paletteService implements PaletteService. Palette colors are read through
// the color service so ownership checks stay in one place.
type paletteService struct {
	repo   PaletteRepository
	colors colors.ColorService
	locks  *kvstore.Locker
	now    func() time.Time
}

// NewPaletteService creates a palette service.
func NewPaletteService(repo PaletteRepository, colorSvc colors.ColorService, locks *kvstore.Locker) PaletteService {
	return &paletteService{repo: repo, colors: colorSvc, locks: locks, now: time.Now}
}

// List returns palettes newest first with their combined colors.
func (s *paletteService) List(ctx context.Context, userID string) ([]PaletteView, error) {
	palettes, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	views := make([]PaletteView, len(palettes))
	for i, p := range palettes {
		views[i] = NewPaletteView(p)
	}
	return views, nil
}

// Get returns one palette.
func (s *paletteService) Get(ctx context.Context, userID, id string) (*PaletteView, error) {
	palettes, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	i := indexOf(palettes, id)
	if i < 0 {
		return nil, apperror.NewNotFound("palette not found")
	}
	v := NewPaletteView(palettes[i])
	return &v, nil
}

// Create copies the selected colors into a new palette at the front of the
// list. A blank name becomes "Palette N" where N is the new palette count.
// Later edits to the source colors do not change the palette.
func (s *paletteService) Create(ctx context.Context, userID, name string, colorIDs []string) (*PaletteView, error) {
	if len(colorIDs) == 0 || len(colorIDs) > MaxPaletteColors {
		return nil, apperror.NewValidation(fmt.Sprintf("select between 1 and %d colors", MaxPaletteColors))
	}
	seen := make(map[string]bool, len(colorIDs))
	for _, id := range colorIDs {
		if seen[id] {
			return nil, apperror.NewValidation("each color can be used once per palette")
		}
		seen[id] = true
	}

	name = sanitize.Name(name)
	if utf8.RuneCountInString(name) > colors.MaxNameLength {
		return nil, apperror.NewValidation(fmt.Sprintf("name must be at most %d characters", colors.MaxNameLength))
	}

	members, err := s.colors.GetMany(ctx, userID, colorIDs)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lock(kvstore.PalettesKey, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	palettes, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if name == "" {
		name = fmt.Sprintf("Palette %d", len(palettes)+1)
	}

	p := colorutil.Palette{
		ID:        uuid.NewString(),
		Name:      name,
		Colors:    slices.Clone(members),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, userID, append([]colorutil.Palette{p}, palettes...)); err != nil {
		return nil, apperror.NewInternal(err)
	}

	MetricPalettesCreated.Inc()
	slog.Info("palette created",
		slog.String("user_id", userID),
		slog.String("palette_id", p.ID),
		slog.Int("colors", len(p.Colors)),
	)
	v := NewPaletteView(p)
	return &v, nil
}

// Delete removes a palette.
func (s *paletteService) Delete(ctx context.Context, userID, id string) error {
	unlock, err := s.lock(kvstore.PalettesKey, userID)
	if err != nil {
		return err
	}
	defer unlock()

	palettes, err := s.repo.List(ctx, userID)
	if err != nil {
		return apperror.NewInternal(err)
	}
	i := indexOf(palettes, id)
	if i < 0 {
		return apperror.NewNotFound("palette not found")
	}
	if err := s.repo.Save(ctx, userID, slices.Delete(palettes, i, i+1)); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

// ToggleFavorite flips a palette's favorite flag.
func (s *paletteService) ToggleFavorite(ctx context.Context, userID, id string) (*PaletteView, error) {
	unlock, err := s.lock(kvstore.PalettesKey, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	palettes, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	i := indexOf(palettes, id)
	if i < 0 {
		return nil, apperror.NewNotFound("palette not found")
	}
	palettes[i].IsFavorite = !palettes[i].IsFavorite
	if err := s.repo.Save(ctx, userID, palettes); err != nil {
		return nil, apperror.NewInternal(err)
	}
	v := NewPaletteView(palettes[i])
	return &v, nil
}

// Image renders one palette as a PNG strip.
func (s *paletteService) Image(ctx context.Context, userID, id string) ([]byte, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return render(p.Colors)
}

// CollectionImage renders the whole color collection as a PNG strip, in
// collection order.
func (s *paletteService) CollectionImage(ctx context.Context, userID string) ([]byte, error) {
	views, err := s.colors.List(ctx, userID, colors.ListOptions{})
	if err != nil {
		return nil, err
	}
	cs := make([]colorutil.Color, len(views))
	for i, v := range views {
		cs[i] = v.Color
	}
	return render(cs)
}

func render(cs []colorutil.Color) ([]byte, error) {
	if len(cs) == 0 {
		return nil, apperror.NewBadRequest("there are no colors to export")
	}
	data, err := RenderPNG(cs)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return data, nil
}

func (s *paletteService) lock(name, userID string) (func(), error) {
	unlock, err := s.locks.Lock(kvstore.UserKey(name, userID))
	if errors.Is(err, kvstore.ErrRetired) {
		return nil, apperror.NewUnauthorized("account no longer exists")
	}
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return unlock, nil
}

func indexOf(palettes []colorutil.Palette, id string) int {
	return slices.IndexFunc(palettes, func(p colorutil.Palette) bool { return p.ID == id })
}
