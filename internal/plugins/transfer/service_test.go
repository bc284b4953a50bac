package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/colorutil"
	"github.com/keyxmakerx/devpalette/internal/kvstore"
	"github.com/keyxmakerx/devpalette/internal/plugins/colors"
	"github.com/keyxmakerx/devpalette/internal/plugins/palettes"
)

// --- Mock Archiver ---

type mockArchiver struct {
	archiveFn func(ctx context.Context, userID string, at time.Time, doc []byte) (string, error)
	calls     int
	lastDoc   []byte
}

func (m *mockArchiver) Archive(ctx context.Context, userID string, at time.Time, doc []byte) (string, error) {
	m.calls++
	m.lastDoc = doc
	if m.archiveFn != nil {
		return m.archiveFn(ctx, userID, at, doc)
	}
	return objectKey("exports", userID, at), nil
}

// --- Test Helpers ---

type testEnv struct {
	svc      *transferService
	mr       *miniredis.Miniredis
	locks    *kvstore.Locker
	colors   colors.ColorRepository
	palettes palettes.PaletteRepository
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T, archiver Archiver) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := kvstore.NewRedisStore(client, "test:")
	locks := kvstore.NewLocker()
	svc := NewTransferService(store, locks, archiver).(*transferService)
	svc.now = func() time.Time { return testNow }
	return &testEnv{
		svc:      svc,
		mr:       mr,
		locks:    locks,
		colors:   colors.NewColorRepository(store),
		palettes: palettes.NewPaletteRepository(store),
	}
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

func seed(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	red := colorutil.NewColor("c1", "Red", colorutil.RGB{R: 255}, testNow)
	if err := env.colors.Save(ctx, "u1", []colorutil.Color{red}); err != nil {
		t.Fatalf("seeding colors: %v", err)
	}
	p := colorutil.Palette{ID: "p1", Name: "Warm", Colors: []colorutil.Color{red}, CreatedAt: testNow}
	if err := env.palettes.Save(ctx, "u1", []colorutil.Palette{p}); err != nil {
		t.Fatalf("seeding palettes: %v", err)
	}
}

// --- Export ---

func TestExport_DocumentShape(t *testing.T) {
	archiver := &mockArchiver{}
	env := newTestEnv(t, archiver)
	seed(t, env)

	data, err := env.svc.Export(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var raw map[string][]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if len(raw["colors"]) != 1 || len(raw["palettes"]) != 1 {
		t.Fatalf("unexpected export %s", data)
	}
	c := raw["colors"][0]
	for _, k := range []string{"id", "name", "hex", "rgb", "hsl", "isFavorite", "createdAt"} {
		if _, ok := c[k]; !ok {
			t.Errorf("color is missing %q", k)
		}
	}
	if archiver.calls != 1 || string(archiver.lastDoc) != string(data) {
		t.Error("expected the exported document to be archived")
	}
}

func TestExport_EmptyUserHasEmptyLists(t *testing.T) {
	env := newTestEnv(t, nil)

	data, err := env.svc.Export(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var doc map[string]json.RawMessage
	_ = json.Unmarshal(data, &doc)
	if string(doc["colors"]) != "[]" || string(doc["palettes"]) != "[]" {
		t.Errorf("expected empty arrays, got %s", data)
	}
}

func TestExport_ArchiveFailureIsNotFatal(t *testing.T) {
	archiver := &mockArchiver{archiveFn: func(ctx context.Context, userID string, at time.Time, doc []byte) (string, error) {
		return "", errors.New("bucket unreachable")
	}}
	env := newTestEnv(t, archiver)
	seed(t, env)

	if _, err := env.svc.Export(context.Background(), "u1"); err != nil {
		t.Fatalf("expected export to succeed, got %v", err)
	}
	if archiver.calls != 1 {
		t.Errorf("expected one archive attempt, got %d", archiver.calls)
	}
}

// --- Import ---

func TestImport_RoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)
	seed(t, env)
	ctx := context.Background()

	data, _ := env.svc.Export(ctx, "u1")
	if _, err := env.svc.Import(ctx, "u2", data); err != nil {
		t.Fatalf("Import: %v", err)
	}

	c1, _ := env.colors.List(ctx, "u1")
	c2, _ := env.colors.List(ctx, "u2")
	p2, _ := env.palettes.List(ctx, "u2")
	if len(c2) != 1 || c2[0] != c1[0] {
		t.Errorf("expected identical colors after round trip, got %+v", c2)
	}
	if len(p2) != 1 || p2[0].ID != "p1" || p2[0].Colors[0].Hex != "#ff0000" {
		t.Errorf("unexpected palettes %+v", p2)
	}
}

func TestImport_OnlyPresentKeysAreReplaced(t *testing.T) {
	env := newTestEnv(t, nil)
	seed(t, env)
	ctx := context.Background()

	result, err := env.svc.Import(ctx, "u1", []byte(`{"colors": []}`))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Colors == nil || *result.Colors != 0 || result.Palettes != nil {
		t.Errorf("unexpected result %+v", result)
	}

	cs, _ := env.colors.List(ctx, "u1")
	ps, _ := env.palettes.List(ctx, "u1")
	if len(cs) != 0 {
		t.Errorf("expected colors replaced by empty list, got %d", len(cs))
	}
	if len(ps) != 1 {
		t.Errorf("expected palettes untouched, got %d", len(ps))
	}

	// null behaves like an absent key.
	if _, err := env.svc.Import(ctx, "u1", []byte(`{"palettes": null}`)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	ps, _ = env.palettes.List(ctx, "u1")
	if len(ps) != 1 {
		t.Errorf("expected palettes untouched by null, got %d", len(ps))
	}
}

func TestImport_ResyncsAndRepairs(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	body := `{"colors": [
		{"id": "a", "name": "Drifted", "hex": "#00FF00", "rgb": {"r": 1, "g": 2, "b": 3}, "hsl": {"h": 9, "s": 9, "l": 9}},
		{"id": "a", "name": "<b></b>", "hex": "0000ff"},
		{"name": "No id", "hex": "#ffffff", "isFavorite": true}
	]}`
	if _, err := env.svc.Import(ctx, "u1", []byte(body)); err != nil {
		t.Fatalf("Import: %v", err)
	}

	cs, _ := env.colors.List(ctx, "u1")
	if len(cs) != 3 {
		t.Fatalf("expected 3 colors, got %d", len(cs))
	}
	if cs[0].RGB != (colorutil.RGB{G: 255}) || cs[0].HSL != (colorutil.HSL{H: 120, S: 100, L: 50}) || cs[0].Hex != "#00ff00" {
		t.Errorf("expected channels rebuilt from hex, got %+v", cs[0])
	}
	if cs[1].ID == "a" || cs[1].ID == "" {
		t.Errorf("expected duplicate id to be reassigned, got %q", cs[1].ID)
	}
	if cs[1].Name != "#0000FF" {
		t.Errorf("expected a markup-only name to fall back to the hex, got %q", cs[1].Name)
	}
	if cs[2].ID == "" || !cs[2].IsFavorite || !cs[2].CreatedAt.Equal(testNow) {
		t.Errorf("unexpected repaired color %+v", cs[2])
	}
}

func TestImport_RejectsMalformedInput(t *testing.T) {
	env := newTestEnv(t, nil)
	seed(t, env)
	ctx := context.Background()

	for _, body := range []string{``, `not json`, `[1,2]`, `{"colors": `, `{"colors": "red"}`, `{"palettes": [{"colors": 5}]}`} {
		_, err := env.svc.Import(ctx, "u1", []byte(body))
		assertAppError(t, err, 400)
	}

	_, err := env.svc.Import(ctx, "u1", []byte(`{"colors": [], "palettes": [{"name": "Bad", "colors": [{"hex": "#xyz"}]}]}`))
	assertAppError(t, err, 422)

	// A rejected document writes nothing, not even the valid key.
	cs, _ := env.colors.List(ctx, "u1")
	if len(cs) != 1 {
		t.Errorf("expected colors untouched after a rejected import, got %d", len(cs))
	}
}

// recordingStore counts how collections reach the underlying store.
type recordingStore struct {
	kvstore.Store
	sets     int
	setManys [][]string
}

func (r *recordingStore) Set(ctx context.Context, key string, value []byte) error {
	r.sets++
	return r.Store.Set(ctx, key, value)
}

func (r *recordingStore) SetMany(ctx context.Context, values map[string][]byte) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	r.setManys = append(r.setManys, keys)
	return r.Store.SetMany(ctx, values)
}

func TestImport_WritesBothCollectionsTogether(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := &recordingStore{Store: env.svc.store}
	env.svc.store = rec
	ctx := context.Background()

	body := `{"colors": [{"id": "c9", "name": "Blue", "hex": "#0000ff"}], "palettes": []}`
	if _, err := env.svc.Import(ctx, "u1", []byte(body)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if rec.sets != 0 {
		t.Errorf("expected no single-key writes, got %d", rec.sets)
	}
	if len(rec.setManys) != 1 || len(rec.setManys[0]) != 2 {
		t.Fatalf("expected one write carrying both keys, got %v", rec.setManys)
	}
}

func TestImport_StoreFailureLeavesCollectionsUntouched(t *testing.T) {
	env := newTestEnv(t, nil)
	seed(t, env)
	ctx := context.Background()

	env.mr.SetError("READONLY replica")
	_, err := env.svc.Import(ctx, "u1", []byte(`{"colors": [], "palettes": []}`))
	assertAppError(t, err, 500)
	env.mr.SetError("")

	cs, _ := env.colors.List(ctx, "u1")
	ps, _ := env.palettes.List(ctx, "u1")
	if len(cs) != 1 || len(ps) != 1 {
		t.Errorf("expected both collections untouched, got %d colors and %d palettes", len(cs), len(ps))
	}
}

func TestImport_DeletedAccountIsRefused(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	env.locks.Retire(kvstore.UserKey(kvstore.ColorsKey, "gone"))
	_, err := env.svc.Import(ctx, "gone", []byte(`{"colors": []}`))
	assertAppError(t, err, 401)

	if env.mr.Exists("test:" + kvstore.UserKey(kvstore.ColorsKey, "gone")) {
		t.Error("expected no collection written for a deleted account")
	}
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 30, 45, 0, time.FixedZone("CET", 3600))
	if got := objectKey("exports", "u1", at); got != "exports/u1/20250301T113045Z.json" {
		t.Errorf("unexpected key %q", got)
	}
	if got := objectKey("", "u1", at); got != "u1/20250301T113045Z.json" {
		t.Errorf("unexpected key without prefix %q", got)
	}
}
