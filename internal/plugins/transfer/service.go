package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/colorutil"
	"github.com/keyxmakerx/devpalette/internal/kvstore"
	"github.com/keyxmakerx/devpalette/internal/plugins/colors"
	"github.com/keyxmakerx/devpalette/internal/plugins/palettes"
	"github.com/keyxmakerx/devpalette/internal/sanitize"
)

// TransferService exports and imports a user's collections.
type TransferService interface {
	Export(ctx context.Context, userID string) ([]byte, error)
	Import(ctx context.Context, userID string, data []byte) (*ImportResult, error)
}

// transferService implements TransferService. archiver may be nil, in which
// case exports are not archived.
type transferService struct {
	store    kvstore.Store
	colors   colors.ColorRepository
	palettes palettes.PaletteRepository
	locks    *kvstore.Locker
	archiver Archiver
	now      func() time.Time
}

// NewTransferService creates a transfer service over the collection store.
// Imports write both collections in a single store transaction.
func NewTransferService(store kvstore.Store, locks *kvstore.Locker, archiver Archiver) TransferService {
	return &transferService{
		store:    store,
		colors:   colors.NewColorRepository(store),
		palettes: palettes.NewPaletteRepository(store),
		locks:    locks,
		archiver: archiver,
		now:      time.Now,
	}
}

// Export renders both collections as an indented JSON document. When an
// archiver is configured the document is uploaded too; an upload failure is
// logged and the export still succeeds.
func (s *transferService) Export(ctx context.Context, userID string) ([]byte, error) {
	cs, err := s.colors.List(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	ps, err := s.palettes.List(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	data, err := json.MarshalIndent(Document{Colors: cs, Palettes: ps}, "", "  ")
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("encoding export: %w", err))
	}

	if s.archiver != nil {
		key, err := s.archiver.Archive(ctx, userID, s.now(), data)
		if err != nil {
			MetricArchives.WithLabelValues("error").Inc()
			slog.Error("export archive failed", slog.String("user_id", userID), slog.Any("error", err))
		} else {
			MetricArchives.WithLabelValues("success").Inc()
			slog.Info("export archived", slog.String("user_id", userID), slog.String("key", key))
		}
	}
	return data, nil
}

// Import replaces each collection present in data. Colors are rebuilt from
// their hex values, names are sanitized, and missing or duplicate ids are
// reassigned. Nothing is written unless the whole document is valid, and the
// present collections are replaced together or not at all.
func (s *transferService) Import(ctx context.Context, userID string, data []byte) (*ImportResult, error) {
	doc, err := decodeImport(data)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	result := &ImportResult{}

	var cs []colorutil.Color
	if doc.Colors != nil {
		if cs, err = normalizeColors(*doc.Colors, now, "colors"); err != nil {
			return nil, err
		}
	}
	var ps []colorutil.Palette
	if doc.Palettes != nil {
		if ps, err = normalizePalettes(*doc.Palettes, now); err != nil {
			return nil, err
		}
	}

	values := make(map[string]any, 2)
	if doc.Colors != nil {
		unlock, err := s.lock(kvstore.ColorsKey, userID)
		if err != nil {
			return nil, err
		}
		defer unlock()
		values[kvstore.UserKey(kvstore.ColorsKey, userID)] = cs
	}
	if doc.Palettes != nil {
		unlock, err := s.lock(kvstore.PalettesKey, userID)
		if err != nil {
			return nil, err
		}
		defer unlock()
		values[kvstore.UserKey(kvstore.PalettesKey, userID)] = ps
	}
	if err := kvstore.SetJSONMany(ctx, s.store, values); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("saving import: %w", err))
	}

	if doc.Colors != nil {
		n := len(cs)
		result.Colors = &n
		colors.MetricColorsSaved.WithLabelValues("import").Add(float64(n))
	}
	if doc.Palettes != nil {
		n := len(ps)
		result.Palettes = &n
	}

	slog.Info("collections imported",
		slog.String("user_id", userID),
		slog.Bool("colors", result.Colors != nil),
		slog.Bool("palettes", result.Palettes != nil),
	)
	return result, nil
}

func (s *transferService) lock(name, userID string) (func(), error) {
	unlock, err := s.locks.Lock(kvstore.UserKey(name, userID))
	if errors.Is(err, kvstore.ErrRetired) {
		return nil, apperror.NewUnauthorized("account no longer exists")
	}
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return unlock, nil
}

// decodeImport parses an import body. Anything but a JSON object with
// well-typed colors/palettes keys is a 400.
func decodeImport(data []byte) (*importDocument, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, apperror.NewBadRequest("import file must be a JSON object")
	}

	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, apperror.NewBadRequest(fmt.Sprintf("import file has an invalid %s field", typeErr.Field))
		}
		return nil, apperror.NewBadRequest("import file is not valid JSON")
	}
	return &doc, nil
}

func normalizeColors(in []colorutil.Color, now time.Time, field string) ([]colorutil.Color, error) {
	out := make([]colorutil.Color, len(in))
	seen := make(map[string]bool, len(in))
	for i, c := range in {
		if _, err := colorutil.ParseHex(strings.TrimSpace(c.Hex)); err != nil {
			return nil, apperror.NewValidation(fmt.Sprintf("%s[%d] has an invalid hex value %q", field, i, c.Hex))
		}
		c.Hex = strings.TrimSpace(c.Hex)
		c = colorutil.Resync(c)

		c.Name = sanitize.Name(c.Name)
		if c.Name == "" {
			c.Name = strings.ToUpper(c.Hex)
		}
		if c.ID == "" || seen[c.ID] {
			c.ID = uuid.NewString()
		}
		seen[c.ID] = true
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		out[i] = c
	}
	return out, nil
}

func normalizePalettes(in []colorutil.Palette, now time.Time) ([]colorutil.Palette, error) {
	out := make([]colorutil.Palette, len(in))
	seen := make(map[string]bool, len(in))
	for i, p := range in {
		members, err := normalizeColors(p.Colors, now, fmt.Sprintf("palettes[%d].colors", i))
		if err != nil {
			return nil, err
		}
		p.Colors = members

		p.Name = sanitize.Name(p.Name)
		if p.Name == "" {
			p.Name = fmt.Sprintf("Palette %d", len(in)-i)
		}
		if p.ID == "" || seen[p.ID] {
			p.ID = uuid.NewString()
		}
		seen[p.ID] = true
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		out[i] = p
	}
	return out, nil
}
