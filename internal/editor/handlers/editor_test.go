package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"crochet-studio/internal/crochet/pattern"
	"crochet-studio/internal/editor/repository"
	"crochet-studio/internal/editor/service"

	"github.com/gofiber/fiber/v3"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const migrationsPath = "../../../migrations/001_init_projects.sql"

type testServer struct {
	app     *fiber.App
	storage *service.FileStorage
	root    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()

	db, err := repository.OpenSQLite(filepath.Join(dir, "db", "editor.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo := repository.New(db)
	if err := repo.Init(context.Background(), migrationsPath); err != nil {
		t.Fatalf("Init: %v", err)
	}

	root := filepath.Join(dir, "exports")
	storage := service.NewFileStorage(root)
	h := NewEditorHandler(service.NewManager(service.DefaultOptions(), repo), repo, storage)

	app := fiber.New()
	h.Register(app)
	return &testServer{app: app, storage: storage, root: root}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.app.Test(req, fiber.TestConfig{Timeout: 30 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func (s *testServer) createSession(t *testing.T) service.State {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/sessions", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d", resp.StatusCode)
	}
	return decode[service.State](t, resp)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	st := s.createSession(t)
	if st.ID == "" || len(st.Rings) != 1 || st.Rings[0].Segments != 8 {
		t.Fatalf("new session state = %+v", st)
	}

	resp := s.do(t, http.MethodGet, "/sessions/"+st.ID+"/state", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("state status = %d", resp.StatusCode)
	}

	resp = s.do(t, http.MethodDelete, "/sessions/"+st.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp = s.do(t, http.MethodGet, "/sessions/"+st.ID+"/state", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("state after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestEventsPlaceStitch(t *testing.T) {
	s := newTestServer(t)
	st := s.createSession(t)

	x, y := pattern.SlotCenter(0, 3, 8, st.RingSpacing)
	px, py := x+float64(st.Width)/2, y+float64(st.Height)/2
	events := []map[string]any{
		{"type": "pointerdown", "x": px, "y": py},
		{"type": "pointerup", "x": px, "y": py},
	}

	resp := s.do(t, http.MethodPost, "/sessions/"+st.ID+"/events", events)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("events status = %d", resp.StatusCode)
	}
	got := decode[eventsResponse](t, resp)
	if !got.Changed || got.State.Rings[0].Stitches[3] != pattern.Plain(pattern.KindSingle) {
		t.Errorf("events response = %+v", got)
	}

	resp = s.do(t, http.MethodPost, "/sessions/"+st.ID+"/events", "not an array")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad events status = %d, want 400", resp.StatusCode)
	}
}

func TestCommands(t *testing.T) {
	s := newTestServer(t)
	st := s.createSession(t)
	path := "/sessions/" + st.ID + "/commands"

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"guide lines", map[string]any{"op": "setGuideLineCount", "count": 30}, http.StatusOK},
		{"stitch", map[string]any{"op": "setSelectedStitch", "kind": "picot"}, http.StatusOK},
		{"zoom", map[string]any{"op": "adjustZoom", "delta": 0.2}, http.StatusOK},
		{"theme", map[string]any{"op": "setTheme", "theme": "contrast"}, http.StatusOK},
		{"unknown theme", map[string]any{"op": "setTheme", "theme": "neon"}, http.StatusBadRequest},
		{"unknown op", map[string]any{"op": "fly"}, http.StatusBadRequest},
		{"missing op", map[string]any{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.do(t, http.MethodPost, path, tt.body)
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}

	got := decode[service.State](t, s.do(t, http.MethodGet, "/sessions/"+st.ID+"/state", nil))
	if got.GuideLines != pattern.MaxGuideLines || got.Selected != pattern.KindPicot || got.Theme != "contrast" {
		t.Errorf("state after commands = %+v", got)
	}
}

func TestFrame(t *testing.T) {
	s := newTestServer(t)
	st := s.createSession(t)

	resp := s.do(t, http.MethodGet, "/sessions/"+st.ID+"/frame.png?hx=400&hy=300", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("frame status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Animation") != "settled" {
		t.Errorf("X-Animation = %q", resp.Header.Get("X-Animation"))
	}
	defer resp.Body.Close()
	if _, err := png.Decode(resp.Body); err != nil {
		t.Errorf("frame is not a png: %v", err)
	}

	resp = s.do(t, http.MethodGet, "/sessions/"+st.ID+"/frame.png?hx=abc&hy=1", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad hover status = %d, want 400", resp.StatusCode)
	}
}

func TestExportAndArchive(t *testing.T) {
	s := newTestServer(t)
	st := s.createSession(t)

	resp := s.do(t, http.MethodGet, "/sessions/"+st.ID+"/export/txt?save=1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.HasPrefix(string(body), "Ring 1, Segment 0: Chain") {
		t.Errorf("txt export = %q", body)
	}

	files, err := s.storage.ListExports(st.ID)
	if err != nil || len(files) != 1 || files[0] != "pattern.txt" {
		t.Errorf("archived = %v, %v", files, err)
	}

	resp = s.do(t, http.MethodGet, "/sessions/"+st.ID+"/export/png", nil)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Errorf("png export status %d type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/sessions/"+st.ID+"/export/gif", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown format status = %d, want 400", resp.StatusCode)
	}
}

func TestSaveLoadProjects(t *testing.T) {
	s := newTestServer(t)
	st := s.createSession(t)
	base := "/sessions/" + st.ID

	resp := s.do(t, http.MethodPost, base+"/load", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("load without autosave status = %d, want 404", resp.StatusCode)
	}

	s.do(t, http.MethodPost, base+"/commands", map[string]any{"op": "addRing"}).Body.Close()
	saved := decode[map[string]string](t, s.do(t, http.MethodPost, base+"/save", map[string]string{"name": "doily"}))
	if saved["saved"] != "doily" {
		t.Errorf("save response = %v", saved)
	}

	list := decode[[]map[string]any](t, s.do(t, http.MethodGet, "/projects", nil))
	if len(list) != 1 || list[0]["name"] != "doily" {
		t.Errorf("projects = %v", list)
	}

	// вторая сессия открывает сохранённый проект
	other := s.createSession(t)
	got := decode[service.State](t, s.do(t, http.MethodPost, "/sessions/"+other.ID+"/load", map[string]string{"name": "doily"}))
	if len(got.Rings) != 2 || got.Project != "doily" {
		t.Errorf("loaded state = %+v", got)
	}

	// автосохранение после addRing доступно без имени
	resp = s.do(t, http.MethodPost, "/sessions/"+other.ID+"/load", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("load autosave status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = s.do(t, http.MethodDelete, "/projects/doily", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete project status = %d", resp.StatusCode)
	}
	resp = s.do(t, http.MethodGet, "/projects/doily", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted project status = %d, want 404", resp.StatusCode)
	}
}
