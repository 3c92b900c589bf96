package input

import (
	"math"

	"crochet-studio/internal/crochet/pattern"
	"crochet-studio/internal/crochet/render"
)

// ============================================================
// Input Controller
// ============================================================

const (
	// DragDeadZone: смещение в пикселях, после которого нажатие считается перетаскиванием.
	DragDeadZone = 4.0

	wheelZoomIn  = 1.1
	wheelZoomOut = 0.9
	keyZoomStep  = 0.1
)

// PointerState: режим работы с указателем.
type PointerState int

const (
	Idle PointerState = iota
	Dragging
	Pinching
)

func (s PointerState) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Pinching:
		return "pinching"
	default:
		return "idle"
	}
}

// Controller переводит события ввода в изменения модели и вида.
// Как и модель, не потокобезопасен.
type Controller struct {
	model  *pattern.Model
	view   render.View
	width  float64
	height float64

	state    PointerState
	anim     AnimationState
	pointers map[int]render.Point

	// одиночное нажатие
	primary int
	downAt  render.Point
	last    render.Point
	moved   bool
	mods    Modifiers

	pinchDist float64
	hover     *render.Point

	saveRequested bool
}

func NewController(model *pattern.Model, width, height float64) *Controller {
	return &Controller{
		model:    model,
		view:     render.NewView(),
		width:    width,
		height:   height,
		pointers: make(map[int]render.Point),
	}
}

func (c *Controller) View() render.View { return c.view }

func (c *Controller) State() PointerState { return c.state }

func (c *Controller) Size() (float64, float64) { return c.width, c.height }

// Hover возвращает позицию указателя над холстом или nil.
func (c *Controller) Hover() *render.Point {
	if c.hover == nil {
		return nil
	}
	p := *c.hover
	return &p
}

// SetHover задаёт позицию указателя напрямую (nil убирает подсветку).
func (c *Controller) SetHover(p *render.Point) {
	if p == nil {
		c.hover = nil
		return
	}
	h := *p
	c.hover = &h
}

// Resize меняет размер холста и заново ограничивает смещение.
func (c *Controller) Resize(width, height float64) {
	c.width, c.height = width, height
	c.clampOffset()
}

// Frame собирает кадр для рендерера из текущего состояния.
func (c *Controller) Frame() render.Frame {
	return render.Frame{
		Pattern:     c.model.Snapshot(),
		RingSpacing: c.model.RingSpacing(),
		Selected:    c.model.Selected(),
		View:        c.view,
		Hover:       c.Hover(),
	}
}

// AdjustZoom прибавляет delta к целевому масштабу.
func (c *Controller) AdjustZoom(delta float64) {
	c.view.AdjustZoom(delta)
	c.clampOffset()
	c.animate()
}

// ResetView плавно возвращает масштаб 1 и нулевое смещение.
func (c *Controller) ResetView() {
	c.view.ResetTarget()
	c.animate()
}

// Handle обрабатывает одно событие. Возвращает true, если изменилась модель.
func (c *Controller) Handle(e Event) bool {
	switch e.Type {
	case PointerDown:
		return c.pointerDown(e)
	case PointerMove:
		c.pointerMove(e)
	case PointerUp:
		return c.pointerUp(e)
	case PointerLeave:
		c.pointerLeave()
	case Wheel:
		c.wheel(e)
	case Key:
		return c.key(e)
	}
	return false
}

// ============================================================
// Pointer
// ============================================================

func (c *Controller) pointerDown(e Event) bool {
	p := render.Point{X: e.X, Y: e.Y}
	c.pointers[e.PointerID] = p

	switch {
	case len(c.pointers) >= 2:
		c.state = Pinching
		c.pinchDist = c.pointerSpread()
	case c.state == Idle:
		c.state = Dragging
		c.primary = e.PointerID
		c.downAt, c.last = p, p
		c.moved = false
		c.mods = e.Modifiers
	}
	return false
}

func (c *Controller) pointerMove(e Event) {
	p := render.Point{X: e.X, Y: e.Y}
	c.hover = &p
	if _, ok := c.pointers[e.PointerID]; ok {
		c.pointers[e.PointerID] = p
	}

	switch c.state {
	case Dragging:
		if e.PointerID != c.primary {
			return
		}
		if !c.moved && math.Hypot(p.X-c.downAt.X, p.Y-c.downAt.Y) > DragDeadZone {
			c.moved = true
		}
		if c.moved {
			c.view.PanBy(p.X-c.last.X, p.Y-c.last.Y)
			c.clampOffset()
			c.animate()
		}
		c.last = p

	case Pinching:
		dist := c.pointerSpread()
		if c.pinchDist > 0 && dist > 0 {
			c.view.ZoomBy(dist / c.pinchDist)
			c.clampOffset()
			c.animate()
		}
		c.pinchDist = dist
	}
}

func (c *Controller) pointerUp(e Event) bool {
	_, tracked := c.pointers[e.PointerID]
	delete(c.pointers, e.PointerID)
	if !tracked {
		return false
	}

	switch c.state {
	case Pinching:
		// после pinch оставшийся палец не ставит петлю
		if len(c.pointers) < 2 {
			c.state = Idle
			c.pointers = make(map[int]render.Point)
		}
		return false

	case Dragging:
		c.state = Idle
		c.view.SnapOffset()
		c.animate()
		if c.moved {
			return false
		}
		return c.click(c.downAt, c.mods)
	}
	return false
}

func (c *Controller) pointerLeave() {
	c.hover = nil
	if c.state != Idle {
		c.view.SnapOffset()
		c.animate()
	}
	c.state = Idle
	c.pointers = make(map[int]render.Point)
}

// click ставит, стирает, прибавляет или убавляет петлю под точкой.
func (c *Controller) click(p render.Point, mods Modifiers) bool {
	m := c.view.ScreenToModel(p, c.width, c.height)
	ring, seg, ok := c.model.Resolve(m.X, m.Y)
	if !ok {
		return false
	}

	switch {
	case mods.Alt:
		return c.model.ClearStitch(ring, seg)
	case mods.Shift:
		return c.model.ApplyIncrease(ring, seg)
	case mods.Ctrl || mods.Meta:
		return c.model.ApplyDecrease(ring, seg)
	default:
		return c.model.Place(ring, seg)
	}
}

func (c *Controller) pointerSpread() float64 {
	var pts []render.Point
	for _, p := range c.pointers {
		pts = append(pts, p)
		if len(pts) == 2 {
			break
		}
	}
	if len(pts) < 2 {
		return 0
	}
	return math.Hypot(pts[1].X-pts[0].X, pts[1].Y-pts[0].Y)
}

// ============================================================
// Wheel & Keyboard
// ============================================================

func (c *Controller) wheel(e Event) {
	switch {
	case e.DeltaY < 0:
		c.view.ZoomBy(wheelZoomIn)
	case e.DeltaY > 0:
		c.view.ZoomBy(wheelZoomOut)
	default:
		return
	}
	c.clampOffset()
	c.animate()
}

func (c *Controller) key(e Event) bool {
	k := e.normalizedKey()

	if e.Command() {
		switch {
		case k == "z" && e.Shift, k == "y":
			return c.model.Redo()
		case k == "z":
			return c.model.Undo()
		case k == "s":
			c.saveRequested = true
		}
		return false
	}

	switch k {
	case "+", "=":
		c.AdjustZoom(keyZoomStep)
	case "-":
		c.AdjustZoom(-keyZoomStep)
	case "0":
		c.ResetView()
	}
	return false
}

// TakeSaveRequest сообщает, был ли Ctrl/Cmd+S с прошлого вызова, и сбрасывает флаг.
func (c *Controller) TakeSaveRequest() bool {
	req := c.saveRequested
	c.saveRequested = false
	return req
}

func (c *Controller) clampOffset() {
	radius := float64(c.model.RingCount()) * c.model.RingSpacing()
	c.view.ClampOffset(radius, c.width, c.height)
}
