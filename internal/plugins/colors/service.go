package colors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/colorutil"
	"github.com/keyxmakerx/devpalette/internal/kvstore"
	"github.com/keyxmakerx/devpalette/internal/sanitize"
)

// ColorService handles business logic for saved colors. Every method is
// scoped to one user's collection.
type ColorService interface {
	List(ctx context.Context, userID string, opts ListOptions) ([]ColorView, error)
	GetMany(ctx context.Context, userID string, ids []string) ([]colorutil.Color, error)
	Add(ctx context.Context, userID, name, hex string) (*colorutil.Color, error)
	AddBatch(ctx context.Context, userID string, colors []colorutil.Color) ([]colorutil.Color, error)
	Rename(ctx context.Context, userID, id, name string) (*colorutil.Color, error)
	ToggleFavorite(ctx context.Context, userID, id string) (*colorutil.Color, error)
	Delete(ctx context.Context, userID, id string) error
	Clear(ctx context.Context, userID string) error
	Code(ctx context.Context, userID, id string, format colorutil.Format, varName string) (*CodeResult, error)
}

// colorService implements ColorService.
type colorService struct {
	repo  ColorRepository
	locks *kvstore.Locker
	now   func() time.Time
}

// NewColorService creates a color service. locks must be shared with every
// other service that writes the colors collection.
func NewColorService(repo ColorRepository, locks *kvstore.Locker) ColorService {
	return &colorService{repo: repo, locks: locks, now: time.Now}
}

// List returns the collection newest first, filtered by opts.
func (s *colorService) List(ctx context.Context, userID string, opts ListOptions) ([]ColorView, error) {
	colors, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	q := strings.ToLower(strings.TrimSpace(opts.Query))
	views := make([]ColorView, 0, len(colors))
	for _, c := range colors {
		if opts.FavoritesOnly && !c.IsFavorite {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(c.Hex), q) {
			continue
		}
		views = append(views, NewColorView(c))
	}
	return views, nil
}

// GetMany returns the colors with the given ids in the order requested.
// Any unknown id is a 404.
func (s *colorService) GetMany(ctx context.Context, userID string, ids []string) ([]colorutil.Color, error) {
	colors, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	out := make([]colorutil.Color, 0, len(ids))
	for _, id := range ids {
		i := indexOf(colors, id)
		if i < 0 {
			return nil, apperror.NewNotFound(fmt.Sprintf("color %q not found", id))
		}
		out = append(out, colors[i])
	}
	return out, nil
}

// Add saves a color built from a strictly parsed hex value. The new color
// goes to the front of the collection.
func (s *colorService) Add(ctx context.Context, userID, name, hex string) (*colorutil.Color, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	rgb, err := colorutil.ParseHex(strings.TrimSpace(hex))
	if err != nil {
		return nil, apperror.NewValidation("hex must be a 6-digit hex color such as #6366f1")
	}

	c := colorutil.NewColor(uuid.NewString(), name, rgb, s.now().UTC())

	unlock, err := s.lock(kvstore.ColorsKey, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	colors, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if err := s.repo.Save(ctx, userID, append([]colorutil.Color{c}, colors...)); err != nil {
		return nil, apperror.NewInternal(err)
	}

	MetricColorsSaved.WithLabelValues("manual").Inc()
	slog.Info("color added", slog.String("user_id", userID), slog.String("hex", c.Hex))
	return &c, nil
}

// AddBatch prepends generated colors, keeping their order. Each color keeps
// its id unless the id is empty or already taken, in which case it gets a
// fresh one. Channels are rebuilt from the hex value.
func (s *colorService) AddBatch(ctx context.Context, userID string, batch []colorutil.Color) ([]colorutil.Color, error) {
	if len(batch) == 0 {
		return nil, apperror.NewValidation("at least one color is required")
	}
	if len(batch) > MaxBatchSize {
		return nil, apperror.NewValidation(fmt.Sprintf("at most %d colors can be saved at once", MaxBatchSize))
	}

	now := s.now().UTC()
	incoming := make([]colorutil.Color, len(batch))
	for i, c := range batch {
		name, err := cleanName(c.Name)
		if err != nil {
			return nil, apperror.NewValidation(fmt.Sprintf("color %d: name is required", i+1))
		}
		if _, err := colorutil.ParseHex(c.Hex); err != nil {
			return nil, apperror.NewValidation(fmt.Sprintf("color %d: invalid hex %q", i+1, c.Hex))
		}
		c = colorutil.Resync(c)
		c.Name = name
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		incoming[i] = c
	}

	unlock, err := s.lock(kvstore.ColorsKey, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	colors, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	taken := make(map[string]bool, len(colors)+len(incoming))
	for _, c := range colors {
		taken[c.ID] = true
	}
	for i := range incoming {
		if incoming[i].ID == "" || taken[incoming[i].ID] {
			incoming[i].ID = uuid.NewString()
		}
		taken[incoming[i].ID] = true
	}

	if err := s.repo.Save(ctx, userID, append(slices.Clone(incoming), colors...)); err != nil {
		return nil, apperror.NewInternal(err)
	}

	MetricColorsSaved.WithLabelValues("generated").Add(float64(len(incoming)))
	slog.Info("colors added", slog.String("user_id", userID), slog.Int("count", len(incoming)))
	return incoming, nil
}

// Rename replaces a color's name.
func (s *colorService) Rename(ctx context.Context, userID, id, name string) (*colorutil.Color, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, userID, id, func(c colorutil.Color) colorutil.Color {
		c.Name = name
		return c
	})
}

// ToggleFavorite flips a color's favorite flag.
func (s *colorService) ToggleFavorite(ctx context.Context, userID, id string) (*colorutil.Color, error) {
	return s.update(ctx, userID, id, func(c colorutil.Color) colorutil.Color {
		c.IsFavorite = !c.IsFavorite
		return c
	})
}

// Delete removes one color. Palettes keep their own copies and are not
// affected.
func (s *colorService) Delete(ctx context.Context, userID, id string) error {
	unlock, err := s.lock(kvstore.ColorsKey, userID)
	if err != nil {
		return err
	}
	defer unlock()

	colors, err := s.repo.List(ctx, userID)
	if err != nil {
		return apperror.NewInternal(err)
	}
	i := indexOf(colors, id)
	if i < 0 {
		return apperror.NewNotFound("color not found")
	}
	if err := s.repo.Save(ctx, userID, slices.Delete(colors, i, i+1)); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

// Clear removes every saved color.
func (s *colorService) Clear(ctx context.Context, userID string) error {
	unlock, err := s.lock(kvstore.ColorsKey, userID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.repo.Clear(ctx, userID); err != nil {
		return apperror.NewInternal(err)
	}
	slog.Info("colors cleared", slog.String("user_id", userID))
	return nil
}

// Code renders a saved color in the requested format.
func (s *colorService) Code(ctx context.Context, userID, id string, format colorutil.Format, varName string) (*CodeResult, error) {
	colors, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	i := indexOf(colors, id)
	if i < 0 {
		return nil, apperror.NewNotFound("color not found")
	}
	return &CodeResult{
		Format: format,
		Code:   colorutil.FormatColorCode(colors[i], format, varName),
	}, nil
}

// update applies fn to the color with the given id and stores the result in
// place.
func (s *colorService) update(ctx context.Context, userID, id string, fn func(colorutil.Color) colorutil.Color) (*colorutil.Color, error) {
	unlock, err := s.lock(kvstore.ColorsKey, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	colors, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	i := indexOf(colors, id)
	if i < 0 {
		return nil, apperror.NewNotFound("color not found")
	}
	colors[i] = fn(colors[i])
	if err := s.repo.Save(ctx, userID, colors); err != nil {
		return nil, apperror.NewInternal(err)
	}
	c := colors[i]
	return &c, nil
}

// lock takes the user's collection key. A deleted account's collection is
// never written again.
func (s *colorService) lock(name, userID string) (func(), error) {
	unlock, err := s.locks.Lock(kvstore.UserKey(name, userID))
	if errors.Is(err, kvstore.ErrRetired) {
		return nil, apperror.NewUnauthorized("account no longer exists")
	}
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return unlock, nil
}

// cleanName sanitizes a color or palette name and enforces its length.
func cleanName(name string) (string, error) {
	name = sanitize.Name(name)
	if name == "" {
		return "", apperror.NewValidation("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", apperror.NewValidation(fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	}
	return name, nil
}

func indexOf(colors []colorutil.Color, id string) int {
	return slices.IndexFunc(colors, func(c colorutil.Color) bool { return c.ID == id })
}
