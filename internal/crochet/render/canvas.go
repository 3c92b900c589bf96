package render

import (
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/recording"
	"github.com/gogpu/gg/text"
)

// ============================================================
// Canvas
// ============================================================

// Canvas: минимальная поверхность рисования. Координаты всегда
// экранные: проекцию вида рендерер считает сам.
type Canvas interface {
	SetRGBA(r, g, b, a float64)
	SetLineWidth(width float64)
	SetDash(lengths ...float64)
	ClearDash()
	SetFont(face text.Face)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	DrawCircle(x, y, r float64)
	DrawRectangle(x, y, w, h float64)
	DrawStringAnchored(s string, x, y, ax, ay float64)
	Fill()
	Stroke()
}

// fontSizer реализуют поверхности, которым нужен кегль отдельно от face.
type fontSizer interface {
	SetFontSize(size float64)
}

var _ Canvas = (*recording.Recorder)(nil)
var _ Canvas = (*RasterCanvas)(nil)

// RasterCanvas: растровая поверхность поверх gg.Context.
// Ошибки Fill/Stroke запоминаются, первая доступна через Err.
type RasterCanvas struct {
	*gg.Context
	err error
}

func NewRasterCanvas(width, height int) *RasterCanvas {
	return &RasterCanvas{Context: gg.NewContext(width, height)}
}

func (c *RasterCanvas) Fill() {
	if err := c.Context.Fill(); err != nil && c.err == nil {
		c.err = err
	}
}

func (c *RasterCanvas) Stroke() {
	if err := c.Context.Stroke(); err != nil && c.err == nil {
		c.err = err
	}
}

func (c *RasterCanvas) Err() error {
	return c.err
}

// EncodePNG пишет PNG; возвращает ошибку рисования, если она была.
func (c *RasterCanvas) EncodePNG(w io.Writer) error {
	if c.err != nil {
		return c.err
	}
	return c.Context.EncodePNG(w)
}
