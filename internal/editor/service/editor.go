package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"crochet-studio/internal/crochet/input"
	"crochet-studio/internal/crochet/pattern"
	"crochet-studio/internal/crochet/render"
	"crochet-studio/internal/editor/models"
	"crochet-studio/internal/editor/repository"
)

// AutosaveKey: ключ автосохранения в хранилище.
const AutosaveKey = "autosave"

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoStore        = errors.New("no pattern store configured")
)

// Store хранит узоры: автосохранение и именованные проекты.
type Store interface {
	Save(ctx context.Context, key string, rings []pattern.Ring) error
	Load(ctx context.Context, key string) ([]pattern.Ring, bool, error)
	SaveProject(ctx context.Context, name string, rings []pattern.Ring) error
	LoadProject(ctx context.Context, name string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.ProjectInfo, error)
	DeleteProject(ctx context.Context, name string) error
}

type Options struct {
	Pattern pattern.Config
	Width   int
	Height  int
	Theme   render.Theme
}

func DefaultOptions() Options {
	return Options{
		Pattern: pattern.DefaultConfig(),
		Width:   800,
		Height:  600,
		Theme:   render.DefaultTheme(),
	}
}

// ============================================================
// Editor Session
// ============================================================

// Editor: одна сессия редактора. Модель, вид и контроллер доступны
// только под mu: события, команды и кадры сессии идут строго по очереди.
type Editor struct {
	mu       sync.Mutex
	id       string
	model    *pattern.Model
	ctrl     *input.Controller
	renderer *render.Renderer
	store    Store
	project  string
	width    int
	height   int
}

func NewEditor(id string, opts Options, store Store) *Editor {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 800, 600
	}
	model := pattern.NewModel(opts.Pattern)
	return &Editor{
		id:       id,
		model:    model,
		ctrl:     input.NewController(model, float64(opts.Width), float64(opts.Height)),
		renderer: render.NewRenderer(model.Catalog(), opts.Theme),
		store:    store,
		width:    opts.Width,
		height:   opts.Height,
	}
}

func (e *Editor) ID() string { return e.id }

// State: снимок сессии для клиента.
type State struct {
	ID          string             `json:"id"`
	Project     string             `json:"project,omitempty"`
	Rings       []pattern.Ring     `json:"rings"`
	Selected    pattern.StitchKind `json:"selected"`
	GuideLines  int                `json:"guide_lines"`
	RingSpacing float64            `json:"ring_spacing"`
	CanUndo     bool               `json:"can_undo"`
	CanRedo     bool               `json:"can_redo"`
	View        render.View        `json:"view"`
	Animation   string             `json:"animation"`
	Pointer     string             `json:"pointer"`
	Theme       string             `json:"theme"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state()
}

func (e *Editor) state() State {
	return State{
		ID:          e.id,
		Project:     e.project,
		Rings:       e.model.Rings(),
		Selected:    e.model.Selected(),
		GuideLines:  e.model.GuideLines(),
		RingSpacing: e.model.RingSpacing(),
		CanUndo:     e.model.CanUndo(),
		CanRedo:     e.model.CanRedo(),
		View:        e.ctrl.View(),
		Animation:   e.ctrl.Animation().String(),
		Pointer:     e.ctrl.State().String(),
		Theme:       e.renderer.Theme().Name,
		Width:       e.width,
		Height:      e.height,
	}
}

// HandleEvents прогоняет события по порядку. Возвращает true, если менялась модель.
// Ctrl/Cmd+S сохраняет узор так же, как Save без имени.
func (e *Editor) HandleEvents(ctx context.Context, events []input.Event) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	changed := false
	for _, ev := range events {
		if e.ctrl.Handle(ev) {
			changed = true
		}
	}
	if e.ctrl.TakeSaveRequest() {
		if _, err := e.save(ctx, ""); err != nil {
			log.Printf("[EDITOR] save %s: %v", e.id, err)
		}
	} else if changed {
		e.autosave(ctx)
	}
	return changed
}

// ============================================================
// Commands
// ============================================================

// Command: операция UI над сессией.
type Command struct {
	Op      string  `json:"op"`
	Count   int     `json:"count,omitempty"`
	Spacing float64 `json:"spacing,omitempty"`
	Kind    string  `json:"kind,omitempty"`
	Delta   float64 `json:"delta,omitempty"`
	Theme   string  `json:"theme,omitempty"`
}

// Apply выполняет команду. Ошибка возвращается только для неизвестной
// операции или темы; недопустимые значения зажимаются моделью.
func (e *Editor) Apply(ctx context.Context, cmd Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.model.Snapshot()
	switch cmd.Op {
	case "setGuideLineCount":
		e.model.SetGuideLineCount(cmd.Count)
	case "setRingSpacing":
		e.model.SetRingSpacing(cmd.Spacing)
	case "setSelectedStitch":
		if kind, ok := e.model.Catalog().Lookup(cmd.Kind); ok {
			e.model.SetSelectedStitch(kind)
		}
	case "undo":
		e.model.Undo()
	case "redo":
		e.model.Redo()
	case "reset":
		e.model.Reset()
		e.project = ""
	case "addRing":
		e.model.AddRing()
	case "adjustZoom":
		e.ctrl.AdjustZoom(cmd.Delta)
	case "resetView":
		e.ctrl.ResetView()
	case "setTheme":
		theme, err := render.ThemeByName(cmd.Theme)
		if err != nil {
			return err
		}
		e.renderer.SetTheme(theme)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Op)
	}

	if !e.model.Snapshot().Equal(before) {
		e.autosave(ctx)
	}
	return nil
}

// ============================================================
// Rendering & Export
// ============================================================

// RenderFrame продвигает анимацию на один тик и рисует кадр в PNG.
// hover, если задан, заменяет позицию указателя.
func (e *Editor) RenderFrame(hover *render.Point) ([]byte, input.AnimationState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if hover != nil {
		e.ctrl.SetHover(hover)
	}
	anim := e.ctrl.Tick()

	c := render.NewRasterCanvas(e.width, e.height)
	e.renderer.Draw(c, float64(e.width), float64(e.height), e.ctrl.Frame())

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, anim, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), anim, nil
}

// Export выгружает текущий узор.
func (e *Editor) Export(format string) ([]byte, render.Format, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderer.Export(format, e.model.Snapshot(), e.model.RingSpacing(), e.project)
}

// Project: имя открытого проекта или пустая строка.
func (e *Editor) Project() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project
}

// ============================================================
// Persistence
// ============================================================

// Save сохраняет узор: с именем: как проект (save-as), без имени -
// в открытый проект, иначе в автосохранение.
func (e *Editor) Save(ctx context.Context, name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.save(ctx, name)
}

func (e *Editor) save(ctx context.Context, name string) (string, error) {
	if e.store == nil {
		return "", ErrNoStore
	}
	if name == "" {
		name = e.project
	}
	rings := e.model.Rings()
	if name == "" {
		if err := e.store.Save(ctx, AutosaveKey, rings); err != nil {
			return "", err
		}
		return AutosaveKey, nil
	}
	if err := e.store.SaveProject(ctx, name, rings); err != nil {
		return "", err
	}
	e.project = name
	return name, nil
}

// Load открывает проект по имени или автосохранение. Повреждённые
// данные сбрасывают узор и возвращают pattern.ErrInvalidRings.
func (e *Editor) Load(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		return ErrNoStore
	}
	var rings []pattern.Ring
	if name == "" {
		loaded, found, err := e.store.Load(ctx, AutosaveKey)
		if err != nil {
			return e.rejectLoad(err)
		}
		if !found {
			return fmt.Errorf("%s: %w", AutosaveKey, repository.ErrNotFound)
		}
		rings = loaded
	} else {
		p, err := e.store.LoadProject(ctx, name)
		if err != nil {
			return e.rejectLoad(err)
		}
		rings = p.Rings
	}

	if err := e.model.SetRings(rings); err != nil {
		e.project = ""
		return err
	}
	e.project = name
	e.ctrl.Resize(float64(e.width), float64(e.height))
	return nil
}

func (e *Editor) rejectLoad(err error) error {
	if errors.Is(err, pattern.ErrInvalidRings) {
		e.model.Reset()
		e.project = ""
	}
	return err
}

func (e *Editor) autosave(ctx context.Context) {
	if e.store == nil {
		return
	}
	if err := e.store.Save(ctx, AutosaveKey, e.model.Rings()); err != nil {
		log.Printf("[EDITOR] autosave %s: %v", e.id, err)
	}
}
