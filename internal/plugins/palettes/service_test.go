package palettes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/colorutil"
	"github.com/keyxmakerx/devpalette/internal/kvstore"
	"github.com/keyxmakerx/devpalette/internal/plugins/colors"
)

type testEnv struct {
	palettes *paletteService
	colors   colors.ColorService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := kvstore.NewRedisStore(client, "test:")
	locks := kvstore.NewLocker()
	colorSvc := colors.NewColorService(colors.NewColorRepository(store), locks)
	svc := NewPaletteService(NewPaletteRepository(store), colorSvc, locks).(*paletteService)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return &testEnv{palettes: svc, colors: colorSvc}
}

func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func (env *testEnv) addColor(t *testing.T, userID, name, hex string) string {
	t.Helper()
	c, err := env.colors.Add(context.Background(), userID, name, hex)
	if err != nil {
		t.Fatalf("adding color: %v", err)
	}
	return c.ID
}

func TestCreate_SnapshotAndCombined(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	red := env.addColor(t, "u1", "Red", "#ff0000")
	blue := env.addColor(t, "u1", "Blue", "#0000ff")

	p, err := env.palettes.Create(ctx, "u1", "  Royal ", []string{red, blue})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Name != "Royal" || len(p.Colors) != 2 || p.Colors[0].ID != red || p.Colors[1].ID != blue {
		t.Fatalf("unexpected palette %+v", p)
	}
	if p.Combined.Hex != "#800080" {
		t.Errorf("expected combined #800080, got %s", p.Combined.Hex)
	}

	// Renaming or deleting the source color leaves the palette untouched.
	if _, err := env.colors.Rename(ctx, "u1", red, "Scarlet"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if err := env.colors.Delete(ctx, "u1", blue); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := env.palettes.Get(ctx, "u1", p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Colors[0].Name != "Red" || len(got.Colors) != 2 {
		t.Errorf("expected palette snapshot to be unchanged, got %+v", got.Colors)
	}
}

func TestCreate_DefaultNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.addColor(t, "u1", "Gray", "#808080")

	for i, want := range []string{"Palette 1", "Palette 2", "Custom", "Palette 4"} {
		name := ""
		if want == "Custom" {
			name = "Custom"
		}
		p, err := env.palettes.Create(ctx, "u1", name, []string{id})
		if err != nil {
			t.Fatalf("Create #%d: %v", i+1, err)
		}
		if p.Name != want {
			t.Errorf("palette %d: expected %q, got %q", i+1, want, p.Name)
		}
	}

	list, _ := env.palettes.List(ctx, "u1")
	if len(list) != 4 || list[0].Name != "Palette 4" || list[3].Name != "Palette 1" {
		t.Errorf("expected newest first, got %d palettes", len(list))
	}
}

func TestCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.addColor(t, "u1", "A", "#111111")
	b := env.addColor(t, "u1", "B", "#222222")
	c := env.addColor(t, "u1", "C", "#333333")
	d := env.addColor(t, "u1", "D", "#444444")

	_, err := env.palettes.Create(ctx, "u1", "", nil)
	assertAppError(t, err, 422)

	_, err = env.palettes.Create(ctx, "u1", "", []string{a, b, c, d})
	assertAppError(t, err, 422)

	_, err = env.palettes.Create(ctx, "u1", "", []string{a, a})
	assertAppError(t, err, 422)

	_, err = env.palettes.Create(ctx, "u1", "", []string{a, "missing"})
	assertAppError(t, err, 404)

	// Colors belong to their owner.
	_, err = env.palettes.Create(ctx, "u2", "", []string{a})
	assertAppError(t, err, 404)

	list, _ := env.palettes.List(ctx, "u1")
	if len(list) != 0 {
		t.Errorf("expected no palettes after failures, got %d", len(list))
	}
}

func TestDeleteAndFavorite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.addColor(t, "u1", "A", "#abcdef")
	p, _ := env.palettes.Create(ctx, "u1", "", []string{id})

	fav, err := env.palettes.ToggleFavorite(ctx, "u1", p.ID)
	if err != nil || !fav.IsFavorite {
		t.Fatalf("expected favorite, got %+v (err %v)", fav, err)
	}

	if err := env.palettes.Delete(ctx, "u1", p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertAppError(t, env.palettes.Delete(ctx, "u1", p.ID), 404)
	_, err = env.palettes.ToggleFavorite(ctx, "u1", p.ID)
	assertAppError(t, err, 404)
}

func TestList_EmptyPaletteHasZeroCombined(t *testing.T) {
	v := NewPaletteView(colorutil.Palette{ID: "p1", Name: "Imported"})
	if v.Combined != (colorutil.Combined{}) {
		t.Errorf("expected zero combined color, got %+v", v.Combined)
	}
}

func TestImages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.palettes.CollectionImage(ctx, "u1")
	assertAppError(t, err, 400)

	id := env.addColor(t, "u1", "A", "#abcdef")
	env.addColor(t, "u1", "B", "#123456")
	p, _ := env.palettes.Create(ctx, "u1", "", []string{id})

	data, err := env.palettes.Image(ctx, "u1", p.ID)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if w, h := pngSize(t, data); w != 80 || h != 120 {
		t.Errorf("expected 80x120 palette image, got %dx%d", w, h)
	}

	data, err = env.palettes.CollectionImage(ctx, "u1")
	if err != nil {
		t.Fatalf("CollectionImage: %v", err)
	}
	if w, _ := pngSize(t, data); w != 160 {
		t.Errorf("expected 160px wide collection image, got %d", w)
	}

	_, err = env.palettes.Image(ctx, "u1", "missing")
	assertAppError(t, err, 404)
}
