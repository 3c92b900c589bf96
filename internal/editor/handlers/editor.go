package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"crochet-studio/internal/crochet/input"
	"crochet-studio/internal/crochet/pattern"
	"crochet-studio/internal/crochet/render"
	"crochet-studio/internal/editor/repository"
	"crochet-studio/internal/editor/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Editor Handler
// ============================================================

type EditorHandler struct {
	sessions *service.Manager
	store    service.Store
	storage  *service.FileStorage
}

func NewEditorHandler(sessions *service.Manager, store service.Store, storage *service.FileStorage) *EditorHandler {
	return &EditorHandler{
		sessions: sessions,
		store:    store,
		storage:  storage,
	}
}

// Register вешает маршруты редактора на router.
func (h *EditorHandler) Register(r fiber.Router) {
	r.Post("/sessions", h.CreateSession)
	r.Delete("/sessions/:id", h.DeleteSession)
	r.Get("/sessions/:id/state", h.GetState)
	r.Post("/sessions/:id/events", h.PostEvents)
	r.Post("/sessions/:id/commands", h.PostCommand)
	r.Get("/sessions/:id/frame.png", h.GetFrame)
	r.Get("/sessions/:id/export/:format", h.Export)
	r.Post("/sessions/:id/save", h.Save)
	r.Post("/sessions/:id/load", h.Load)

	r.Get("/projects", h.ListProjects)
	r.Get("/projects/:name", h.GetProject)
	r.Delete("/projects/:name", h.DeleteProject)
}

type nameRequest struct {
	Name string `json:"name"`
}

type eventsResponse struct {
	Changed bool          `json:"changed"`
	State   service.State `json:"state"`
}

// ============================================================
// Sessions
// ============================================================

// CreateSession открывает новую сессию со свежим узором.
func (h *EditorHandler) CreateSession(c fiber.Ctx) error {
	e := h.sessions.Create()
	log.Printf("[EDITOR] Session created: %s", e.ID())
	return c.Status(http.StatusCreated).JSON(e.State())
}

func (h *EditorHandler) DeleteSession(c fiber.Ctx) error {
	if err := h.sessions.Delete(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *EditorHandler) GetState(c fiber.Ctx) error {
	e, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(e.State())
}

// PostEvents принимает массив событий ввода и применяет их по порядку.
func (h *EditorHandler) PostEvents(c fiber.Ctx) error {
	e, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}
	var events []input.Event
	if err := json.Unmarshal(c.Body(), &events); err != nil {
		log.Printf("[EDITOR] Decode events error: %v", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	changed := e.HandleEvents(context.Background(), events)
	return c.JSON(eventsResponse{Changed: changed, State: e.State()})
}

// PostCommand выполняет одну операцию UI: {"op": "...", ...}.
func (h *EditorHandler) PostCommand(c fiber.Ctx) error {
	e, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	var cmd service.Command
	if err := json.Unmarshal(c.Body(), &cmd); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if cmd.Op == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "op required"})
	}

	if err := e.Apply(context.Background(), cmd); err != nil {
		log.Printf("[EDITOR] Command %s error: %v", cmd.Op, err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(e.State())
}

// GetFrame продвигает анимацию на один тик и отдаёт кадр.
// hx/hy: позиция указателя для подсветки.
func (h *EditorHandler) GetFrame(c fiber.Ctx) error {
	e, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	hover, err := hoverPoint(c.Query("hx"), c.Query("hy"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid hover point"})
	}

	data, anim, err := e.RenderFrame(hover)
	if err != nil {
		log.Printf("[EDITOR] Frame error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "image/png")
	c.Set("X-Animation", anim.String())
	return c.Send(data)
}

// ============================================================
// Export
// ============================================================

// Export отдаёт выгрузку png|pdf|svg|txt. save=1 дополнительно кладёт
// файл в архив проекта.
func (h *EditorHandler) Export(c fiber.Ctx) error {
	e, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	data, format, err := e.Export(c.Params("format"))
	if err != nil {
		log.Printf("[EDITOR] Export error: %v", err)
		return writeError(c, err)
	}

	if c.Query("save") == "1" && h.storage != nil {
		project := e.Project()
		if project == "" {
			project = e.ID()
		}
		path, err := h.storage.SaveExport(project, format, data)
		if err != nil {
			log.Printf("[EDITOR] Archive export error: %v", err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to archive export"})
		}
		log.Printf("[EDITOR] Export archived: %s", path)
	}

	c.Set("Content-Type", format.ContentType)
	c.Set("Content-Disposition", `attachment; filename="pattern`+format.Extension+`"`)
	return c.Send(data)
}

// ============================================================
// Persistence
// ============================================================

// Save сохраняет узор сессии: {"name"}: как проект, иначе автосохранение.
func (h *EditorHandler) Save(c fiber.Ctx) error {
	e, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	req, err := parseName(c.Body())
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	saved, err := e.Save(context.Background(), req.Name)
	if err != nil {
		log.Printf("[EDITOR] Save error: %v", err)
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"saved": saved})
}

// Load открывает проект или автосохранение в сессии.
func (h *EditorHandler) Load(c fiber.Ctx) error {
	e, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	req, err := parseName(c.Body())
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	if err := e.Load(context.Background(), req.Name); err != nil {
		log.Printf("[EDITOR] Load error: %v", err)
		return writeError(c, err)
	}
	return c.JSON(e.State())
}

func (h *EditorHandler) ListProjects(c fiber.Ctx) error {
	projects, err := h.store.ListProjects(context.Background())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(projects)
}

func (h *EditorHandler) GetProject(c fiber.Ctx) error {
	p, err := h.store.LoadProject(context.Background(), c.Params("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

func (h *EditorHandler) DeleteProject(c fiber.Ctx) error {
	if err := h.store.DeleteProject(context.Background(), c.Params("name")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Helpers
// ============================================================

func parseName(body []byte) (nameRequest, error) {
	var req nameRequest
	if len(body) == 0 {
		return req, nil
	}
	err := json.Unmarshal(body, &req)
	return req, err
}

func hoverPoint(hx, hy string) (*render.Point, error) {
	if hx == "" && hy == "" {
		return nil, nil
	}
	x, err := strconv.ParseFloat(hx, 64)
	if err != nil {
		return nil, err
	}
	y, err := strconv.ParseFloat(hy, 64)
	if err != nil {
		return nil, err
	}
	return &render.Point{X: x, Y: y}, nil
}

// writeError переводит доменные ошибки в HTTP-статусы.
func writeError(c fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, pattern.ErrInvalidRings):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, render.ErrUnknownFormat), errors.Is(err, service.ErrUnknownCommand):
		status = http.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
