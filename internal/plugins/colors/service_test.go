package colors

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/colorutil"
	"github.com/keyxmakerx/devpalette/internal/kvstore"
)

// --- Mock Repository ---

// mockColorRepo implements ColorRepository for failure tests.
type mockColorRepo struct {
	listFn  func(ctx context.Context, userID string) ([]colorutil.Color, error)
	saveFn  func(ctx context.Context, userID string, colors []colorutil.Color) error
	clearFn func(ctx context.Context, userID string) error
}

func (m *mockColorRepo) List(ctx context.Context, userID string) ([]colorutil.Color, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return []colorutil.Color{}, nil
}

func (m *mockColorRepo) Save(ctx context.Context, userID string, colors []colorutil.Color) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, userID, colors)
	}
	return nil
}

func (m *mockColorRepo) Clear(ctx context.Context, userID string) error {
	if m.clearFn != nil {
		return m.clearFn(ctx, userID)
	}
	return nil
}

// --- Test Helpers ---

// newTestColorService returns a service over a miniredis-backed store.
func newTestColorService(t *testing.T) (*colorService, kvstore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := kvstore.NewRedisStore(client, "test:")
	svc := NewColorService(NewColorRepository(store), kvstore.NewLocker()).(*colorService)
	tick := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return svc, store
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

func mustAdd(t *testing.T, svc *colorService, userID, name, hex string) *colorutil.Color {
	t.Helper()
	c, err := svc.Add(context.Background(), userID, name, hex)
	if err != nil {
		t.Fatalf("Add(%q, %q): %v", name, hex, err)
	}
	return c
}

// --- Add ---

func TestAdd_NormalizesAndPrepends(t *testing.T) {
	svc, _ := newTestColorService(t)
	ctx := context.Background()

	first := mustAdd(t, svc, "u1", "Indigo", "#6366F1")
	second := mustAdd(t, svc, "u1", "  Sky <i>Blue</i> ", "87ceeb")

	if first.Hex != "#6366f1" || first.RGB != (colorutil.RGB{R: 99, G: 102, B: 241}) || first.HSL != (colorutil.HSL{H: 239, S: 84, L: 67}) {
		t.Errorf("unexpected color %+v", first)
	}
	if second.Name != "Sky Blue" || second.Hex != "#87ceeb" {
		t.Errorf("unexpected color %+v", second)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Error("expected distinct generated ids")
	}

	list, err := svc.List(ctx, "u1", ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}
}

func TestAdd_RejectsBadInput(t *testing.T) {
	svc, _ := newTestColorService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", "Bad", "#12345")
	assertAppError(t, err, 422)

	_, err = svc.Add(ctx, "u1", "Bad", "not-a-color")
	assertAppError(t, err, 422)

	_, err = svc.Add(ctx, "u1", "<b></b>", "#123456")
	assertAppError(t, err, 422)

	_, err = svc.Add(ctx, "u1", strings.Repeat("x", MaxNameLength+1), "#123456")
	assertAppError(t, err, 422)

	list, _ := svc.List(ctx, "u1", ListOptions{})
	if len(list) != 0 {
		t.Errorf("expected nothing saved, got %d colors", len(list))
	}
}

func TestAdd_UsersAreIsolated(t *testing.T) {
	svc, _ := newTestColorService(t)
	mustAdd(t, svc, "u1", "Red", "#ff0000")

	list, err := svc.List(context.Background(), "u2", ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected u2 to see no colors, got %d", len(list))
	}
}

func TestAdd_ConcurrentWritesAreNotLost(t *testing.T) {
	svc, _ := newTestColorService(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Add(context.Background(), "u1", "Color", "#101010"); err != nil {
				t.Errorf("Add: %v", err)
			}
		}()
	}
	wg.Wait()

	list, _ := svc.List(context.Background(), "u1", ListOptions{})
	if len(list) != 20 {
		t.Fatalf("expected 20 colors, got %d", len(list))
	}
}

// --- List ---

func TestList_Filters(t *testing.T) {
	svc, _ := newTestColorService(t)
	ctx := context.Background()

	red := mustAdd(t, svc, "u1", "Crimson", "#dc143c")
	mustAdd(t, svc, "u1", "Sky", "#87ceeb")
	mustAdd(t, svc, "u1", "Navy", "#000080")
	if _, err := svc.ToggleFavorite(ctx, "u1", red.ID); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"all newest first", ListOptions{}, []string{"Navy", "Sky", "Crimson"}},
		{"name match is case-insensitive", ListOptions{Query: "SKY"}, []string{"Sky"}},
		{"hex match", ListOptions{Query: "#0000"}, []string{"Navy"}},
		{"favorites only", ListOptions{FavoritesOnly: true}, []string{"Crimson"}},
		{"favorites and query", ListOptions{FavoritesOnly: true, Query: "navy"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := svc.List(ctx, "u1", tt.opts)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			var names []string
			for _, c := range list {
				names = append(names, c.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("expected %v, got %v", tt.want, names)
			}
		})
	}
}

func TestList_IncludesContrast(t *testing.T) {
	svc, _ := newTestColorService(t)
	mustAdd(t, svc, "u1", "Yellow", "#ffff00")
	mustAdd(t, svc, "u1", "Navy", "#000080")

	list, _ := svc.List(context.Background(), "u1", ListOptions{})
	if list[0].Contrast != colorutil.ContrastWhite {
		t.Errorf("navy: expected white text, got %s", list[0].Contrast)
	}
	if list[1].Contrast != colorutil.ContrastBlack {
		t.Errorf("yellow: expected black text, got %s", list[1].Contrast)
	}
}

func TestList_RepositoryFailure(t *testing.T) {
	svc := NewColorService(&mockColorRepo{
		listFn: func(ctx context.Context, userID string) ([]colorutil.Color, error) {
			return nil, errors.New("redis down")
		},
	}, kvstore.NewLocker())

	_, err := svc.List(context.Background(), "u1", ListOptions{})
	assertAppError(t, err, 500)
}

// --- Batch ---

func TestAddBatch_KeepsIdsAndReassignsCollisions(t *testing.T) {
	svc, _ := newTestColorService(t)
	ctx := context.Background()

	existing := mustAdd(t, svc, "u1", "Existing", "#123456")

	generated := colorutil.GenerateComplementaryColors("#ff0000")
	batch := []colorutil.Color{
		generated[0],
		{ID: existing.ID, Name: "Collides", Hex: "#00ff00"},
		{ID: generated[0].ID, Name: "Duplicate in batch", Hex: "#0000ff"},
		{Name: "No id", Hex: "#ABCDEF", RGB: colorutil.RGB{R: 1, G: 2, B: 3}},
	}

	saved, err := svc.AddBatch(ctx, "u1", batch)
	if err != nil {
		t.Fatalf("AddBatch: %v", err)
	}
	if len(saved) != 4 {
		t.Fatalf("expected 4 saved colors, got %d", len(saved))
	}
	if saved[0].ID != generated[0].ID {
		t.Errorf("expected caller id %q to be kept, got %q", generated[0].ID, saved[0].ID)
	}
	seen := map[string]bool{existing.ID: true}
	for _, c := range saved {
		if c.ID == "" || seen[c.ID] {
			t.Errorf("id %q is empty or duplicated", c.ID)
		}
		seen[c.ID] = true
	}
	if saved[3].Hex != "#abcdef" || saved[3].RGB != (colorutil.RGB{R: 171, G: 205, B: 239}) {
		t.Errorf("expected channels rebuilt from hex, got %+v", saved[3])
	}
	if saved[3].CreatedAt.IsZero() {
		t.Error("expected createdAt to be filled in")
	}

	list, _ := svc.List(ctx, "u1", ListOptions{})
	if len(list) != 5 || list[0].ID != saved[0].ID || list[4].ID != existing.ID {
		t.Errorf("expected batch prepended in order, got %d colors", len(list))
	}
}

func TestAddBatch_Validation(t *testing.T) {
	svc, _ := newTestColorService(t)
	ctx := context.Background()

	_, err := svc.AddBatch(ctx, "u1", nil)
	assertAppError(t, err, 422)

	_, err = svc.AddBatch(ctx, "u1", []colorutil.Color{{Name: "Bad", Hex: "#zzzzzz"}})
	assertAppError(t, err, 422)

	_, err = svc.AddBatch(ctx, "u1", []colorutil.Color{{Name: "", Hex: "#000000"}})
	assertAppError(t, err, 422)

	_, err = svc.AddBatch(ctx, "u1", make([]colorutil.Color, MaxBatchSize+1))
	assertAppError(t, err, 422)
}

// --- Edits ---

func TestRenameAndFavorite(t *testing.T) {
	svc, _ := newTestColorService(t)
	ctx := context.Background()
	c := mustAdd(t, svc, "u1", "Old", "#6366f1")

	renamed, err := svc.Rename(ctx, "u1", c.ID, "New name")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if renamed.Name != "New name" || renamed.Hex != c.Hex || renamed.HSL != c.HSL {
		t.Errorf("rename changed more than the name: %+v", renamed)
	}

	fav, _ := svc.ToggleFavorite(ctx, "u1", c.ID)
	if !fav.IsFavorite {
		t.Error("expected favorite after first toggle")
	}
	fav, _ = svc.ToggleFavorite(ctx, "u1", c.ID)
	if fav.IsFavorite {
		t.Error("expected not favorite after second toggle")
	}

	_, err = svc.Rename(ctx, "u1", "missing", "x")
	assertAppError(t, err, 404)
	_, err = svc.ToggleFavorite(ctx, "u2", c.ID)
	assertAppError(t, err, 404)
}

func TestDeleteAndClear(t *testing.T) {
	svc, store := newTestColorService(t)
	ctx := context.Background()
	a := mustAdd(t, svc, "u1", "A", "#aaaaaa")
	b := mustAdd(t, svc, "u1", "B", "#bbbbbb")

	if err := svc.Delete(ctx, "u1", a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertAppError(t, svc.Delete(ctx, "u1", a.ID), 404)

	list, _ := svc.List(ctx, "u1", ListOptions{})
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("expected only B to remain, got %+v", list)
	}

	if err := svc.Clear(ctx, "u1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Get(ctx, kvstore.UserKey(kvstore.ColorsKey, "u1")); !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("expected collection key removed, got %v", err)
	}
}

// --- Lookups ---

func TestGetMany(t *testing.T) {
	svc, _ := newTestColorService(t)
	ctx := context.Background()
	a := mustAdd(t, svc, "u1", "A", "#aaaaaa")
	b := mustAdd(t, svc, "u1", "B", "#bbbbbb")

	got, err := svc.GetMany(ctx, "u1", []string{a.ID, b.ID})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if got[0].ID != a.ID || got[1].ID != b.ID {
		t.Error("expected colors in requested order")
	}

	_, err = svc.GetMany(ctx, "u1", []string{a.ID, "missing"})
	assertAppError(t, err, 404)
}

func TestCode(t *testing.T) {
	svc, _ := newTestColorService(t)
	ctx := context.Background()
	c := mustAdd(t, svc, "u1", "Sky Blue", "#87CEEB")

	tests := []struct {
		format  colorutil.Format
		varName string
		want    string
	}{
		{colorutil.FormatHex, "", "#87CEEB"},
		{colorutil.FormatRGB, "", "rgb(135, 206, 235)"},
		{colorutil.FormatHSL, "", "hsl(197, 71%, 73%)"},
		{colorutil.FormatCSSVar, "", "--sky-blue: #87ceeb;"},
		{colorutil.FormatCSSVar, "brand", "--brand: #87ceeb;"},
	}
	for _, tt := range tests {
		got, err := svc.Code(ctx, "u1", c.ID, tt.format, tt.varName)
		if err != nil {
			t.Fatalf("Code(%s): %v", tt.format, err)
		}
		if got.Code != tt.want {
			t.Errorf("Code(%s, %q) = %q, want %q", tt.format, tt.varName, got.Code, tt.want)
		}
	}

	_, err := svc.Code(ctx, "u1", "missing", colorutil.FormatHex, "")
	assertAppError(t, err, 404)
}

func TestWritesToDeletedAccountAreRefused(t *testing.T) {
	svc, store := newTestColorService(t)
	ctx := context.Background()

	svc.locks.Retire(kvstore.UserKey(kvstore.ColorsKey, "gone"))

	_, err := svc.Add(ctx, "gone", "Red", "#ff0000")
	assertAppError(t, err, 401)
	_, err = svc.AddBatch(ctx, "gone", []colorutil.Color{{Name: "Green", Hex: "#00ff00"}})
	assertAppError(t, err, 401)
	assertAppError(t, svc.Clear(ctx, "gone"), 401)

	if _, err := store.Get(ctx, kvstore.UserKey(kvstore.ColorsKey, "gone")); !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("expected no collection for a deleted account, got %v", err)
	}

	// Other users are unaffected.
	if _, err := svc.Add(ctx, "u1", "Red", "#ff0000"); err != nil {
		t.Errorf("unexpected error for live account: %v", err)
	}
}
