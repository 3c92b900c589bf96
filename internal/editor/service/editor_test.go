package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"crochet-studio/internal/crochet/input"
	"crochet-studio/internal/crochet/pattern"
	"crochet-studio/internal/crochet/render"
	"crochet-studio/internal/editor/models"
	"crochet-studio/internal/editor/repository"
)

// memStore: хранилище в памяти с тем же поведением, что у sqlite-репозитория.
type memStore struct {
	mu       sync.Mutex
	kv       map[string][]pattern.Ring
	projects map[string][]pattern.Ring
	corrupt  map[string]bool
	saves    int
}

func newMemStore() *memStore {
	return &memStore{
		kv:       make(map[string][]pattern.Ring),
		projects: make(map[string][]pattern.Ring),
		corrupt:  make(map[string]bool),
	}
}

func (s *memStore) Save(_ context.Context, key string, rings []pattern.Ring) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = rings
	s.saves++
	return nil
}

func (s *memStore) Load(_ context.Context, key string) ([]pattern.Ring, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.corrupt[key] {
		return nil, true, pattern.ErrInvalidRings
	}
	rings, ok := s.kv[key]
	return rings, ok, nil
}

func (s *memStore) SaveProject(_ context.Context, name string, rings []pattern.Ring) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[name] = rings
	return nil
}

func (s *memStore) LoadProject(_ context.Context, name string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rings, ok := s.projects[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &models.Project{Name: name, Rings: rings}, nil
}

func (s *memStore) ListProjects(_ context.Context) ([]models.ProjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ProjectInfo
	for name, rings := range s.projects {
		out = append(out, models.ProjectInfo{Name: name, RingCount: len(rings)})
	}
	return out, nil
}

func (s *memStore) DeleteProject(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[name]; !ok {
		return repository.ErrNotFound
	}
	delete(s.projects, name)
	return nil
}

func newTestEditor(t *testing.T) (*Editor, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewEditor("test", DefaultOptions(), store), store
}

func slotEvents(e *Editor, ring, seg int, mods input.Modifiers) []input.Event {
	st := e.State()
	n := st.Rings[ring].Segments
	x, y := pattern.SlotCenter(ring, seg, n, st.RingSpacing)
	p := st.View.ModelToScreen(render.Point{X: x, Y: y}, float64(st.Width), float64(st.Height))
	return []input.Event{
		{Type: input.PointerDown, X: p.X, Y: p.Y, Modifiers: mods},
		{Type: input.PointerUp, X: p.X, Y: p.Y, Modifiers: mods},
	}
}

func TestHandleEventsAutosaves(t *testing.T) {
	e, store := newTestEditor(t)
	ctx := context.Background()

	if !e.HandleEvents(ctx, slotEvents(e, 0, 3, input.Modifiers{})) {
		t.Fatal("click did not change the model")
	}
	if store.saves != 1 {
		t.Errorf("autosaves = %d, want 1", store.saves)
	}
	rings := store.kv[AutosaveKey]
	if len(rings) != 1 || rings[0].Stitches[3] != pattern.Plain(pattern.KindSingle) {
		t.Errorf("autosaved rings = %+v", rings)
	}

	// колесо модель не меняет
	if e.HandleEvents(ctx, []input.Event{{Type: input.Wheel, DeltaY: -1}}) {
		t.Error("wheel reported a model change")
	}
	if store.saves != 1 {
		t.Errorf("autosaves after wheel = %d, want 1", store.saves)
	}
}

func TestApplyCommands(t *testing.T) {
	e, _ := newTestEditor(t)
	ctx := context.Background()

	steps := []Command{
		{Op: "setGuideLineCount", Count: 12},
		{Op: "setRingSpacing", Spacing: 500},
		{Op: "setSelectedStitch", Kind: "treble"},
		{Op: "setSelectedStitch", Kind: "bogus"},
		{Op: "addRing"},
		{Op: "adjustZoom", Delta: 0.5},
		{Op: "setTheme", Theme: "dark"},
	}
	for _, cmd := range steps {
		if err := e.Apply(ctx, cmd); err != nil {
			t.Fatalf("Apply(%s): %v", cmd.Op, err)
		}
	}

	st := e.State()
	if st.GuideLines != 12 || st.Rings[0].Segments != 12 {
		t.Errorf("guide lines = %d, ring 0 = %d; want 12", st.GuideLines, st.Rings[0].Segments)
	}
	if st.RingSpacing != pattern.MaxRingSpacing {
		t.Errorf("ring spacing = %v, want %v", st.RingSpacing, pattern.MaxRingSpacing)
	}
	if st.Selected != pattern.KindTreble {
		t.Errorf("selected = %v, want treble", st.Selected)
	}
	if len(st.Rings) != 2 {
		t.Errorf("rings = %d, want 2", len(st.Rings))
	}
	if st.View.TargetScale != 1.5 || st.Animation != "animating" {
		t.Errorf("view = %+v, animation %s", st.View, st.Animation)
	}
	if st.Theme != "dark" {
		t.Errorf("theme = %q, want dark", st.Theme)
	}

	if err := e.Apply(ctx, Command{Op: "undo"}); err != nil {
		t.Fatal(err)
	}
	if st := e.State(); len(st.Rings) != 1 || !st.CanRedo {
		t.Errorf("after undo rings = %d, can redo %v", len(st.Rings), st.CanRedo)
	}

	if err := e.Apply(ctx, Command{Op: "explode"}); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown op err = %v, want ErrUnknownCommand", err)
	}
	if err := e.Apply(ctx, Command{Op: "setTheme", Theme: "neon"}); err == nil {
		t.Error("unknown theme accepted")
	}
}

func TestRenderFrameTicks(t *testing.T) {
	e, _ := newTestEditor(t)
	ctx := context.Background()

	data, anim, err := e.RenderFrame(nil)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if anim != input.Settled {
		t.Errorf("idle animation = %v, want settled", anim)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("frame bounds = %v", b)
	}

	e.Apply(ctx, Command{Op: "adjustZoom", Delta: 1})
	_, anim, _ = e.RenderFrame(&render.Point{X: 400, Y: 300})
	if anim != input.Animating {
		t.Errorf("animation after zoom = %v, want animating", anim)
	}
	if st := e.State(); st.View.Scale <= 1 || st.View.Scale >= 2 {
		t.Errorf("scale after one frame = %v", st.View.Scale)
	}
}

func TestSaveShortcutSaves(t *testing.T) {
	e, store := newTestEditor(t)
	ctx := context.Background()
	save := input.Event{Type: input.Key, Key: "s", Modifiers: input.Modifiers{Ctrl: true}}

	if e.HandleEvents(ctx, []input.Event{save}) {
		t.Error("ctrl+s reported a model change")
	}
	if store.saves != 1 || store.kv[AutosaveKey] == nil {
		t.Fatalf("saves = %d, autosave %v", store.saves, store.kv[AutosaveKey])
	}

	// с открытым проектом сохраняем в него
	if _, err := e.Save(ctx, "doily"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	events := append(slotEvents(e, 0, 2, input.Modifiers{}), save)
	if !e.HandleEvents(ctx, events) {
		t.Fatal("click did not change the model")
	}
	rings := store.projects["doily"]
	if len(rings) != 1 || rings[0].Stitches[2] != pattern.Plain(pattern.KindSingle) {
		t.Errorf("project rings = %+v", rings)
	}
	if store.saves != 1 {
		t.Errorf("autosaves = %d, want 1 (saved into project instead)", store.saves)
	}
}

func TestSaveLoadProjects(t *testing.T) {
	e, store := newTestEditor(t)
	ctx := context.Background()

	key, err := e.Save(ctx, "")
	if err != nil || key != AutosaveKey {
		t.Fatalf("Save unnamed = %q, %v", key, err)
	}

	e.HandleEvents(ctx, slotEvents(e, 0, 0, input.Modifiers{Shift: true}))
	name, err := e.Save(ctx, "doily")
	if err != nil || name != "doily" || e.Project() != "doily" {
		t.Fatalf("Save named = %q, %v (project %q)", name, err, e.Project())
	}
	if len(store.projects["doily"]) != 2 {
		t.Errorf("saved project rings = %d, want 2", len(store.projects["doily"]))
	}

	// без имени сохраняем в открытый проект
	e.Apply(ctx, Command{Op: "addRing"})
	if name, _ := e.Save(ctx, ""); name != "doily" {
		t.Errorf("Save into open project = %q", name)
	}

	e.Apply(ctx, Command{Op: "reset"})
	if err := e.Load(ctx, "doily"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	st := e.State()
	if len(st.Rings) != 3 || st.Project != "doily" || st.CanUndo {
		t.Errorf("after load rings %d project %q can undo %v", len(st.Rings), st.Project, st.CanUndo)
	}

	if err := e.Load(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Load missing err = %v, want ErrNotFound", err)
	}
}

func TestLoadCorruptResets(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *memStore)
		load  string
	}{
		{"undecodable autosave", func(s *memStore) { s.corrupt[AutosaveKey] = true }, ""},
		{"length mismatch", func(s *memStore) {
			s.projects["bad"] = []pattern.Ring{{Segments: 4, Stitches: make([]pattern.Stitch, 2)}}
		}, "bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store := newTestEditor(t)
			ctx := context.Background()
			tt.setup(store)
			e.Apply(ctx, Command{Op: "addRing"})

			if err := e.Load(ctx, tt.load); !errors.Is(err, pattern.ErrInvalidRings) {
				t.Fatalf("Load err = %v, want ErrInvalidRings", err)
			}
			st := e.State()
			if len(st.Rings) != 1 || st.Rings[0].Segments != 8 || st.Project != "" {
				t.Errorf("after rejected load = %+v", st)
			}
		})
	}
}

func TestExportArchive(t *testing.T) {
	e, _ := newTestEditor(t)
	storage := NewFileStorage(t.TempDir())

	data, f, err := e.Export("txt")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	path, err := storage.SaveExport("../doily", f, data)
	if err != nil {
		t.Fatalf("SaveExport: %v", err)
	}
	if filepath.Dir(path) != storage.ProjectDir("../doily") || filepath.Base(path) != "pattern.txt" {
		t.Errorf("export path = %s", path)
	}
	got, _ := os.ReadFile(path)
	if !bytes.Equal(got, data) {
		t.Error("archived export differs")
	}

	files, err := storage.ListExports("../doily")
	if err != nil || len(files) != 1 || files[0] != "pattern.txt" {
		t.Errorf("ListExports = %v, %v", files, err)
	}
	if files, _ := storage.ListExports("nothing"); len(files) != 0 {
		t.Errorf("ListExports empty = %v", files)
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"doily", "doily"},
		{"../etc/passwd", "_etc_passwd"},
		{"  ", "untitled"},
		{"..", "untitled"},
	}
	for _, tt := range tests {
		if got := safeName(tt.in); got != tt.want {
			t.Errorf("safeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestManager(t *testing.T) {
	m := NewManager(DefaultOptions(), newMemStore())
	a := m.Create()
	b := m.Create()
	if a.ID() == b.ID() || m.Len() != 2 {
		t.Fatalf("ids %s %s, len %d", a.ID(), b.ID(), m.Len())
	}

	got, err := m.Get(a.ID())
	if err != nil || got != a {
		t.Errorf("Get = %v, %v", got, err)
	}
	if err := m.Delete(a.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(a.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get deleted err = %v", err)
	}
	if err := m.Delete(a.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Delete twice err = %v", err)
	}
}
