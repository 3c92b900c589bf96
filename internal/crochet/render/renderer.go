package render

import (
	"math"

	"crochet-studio/internal/crochet/pattern"

	"github.com/gogpu/gg"
)

// ============================================================
// Renderer
// ============================================================

const (
	glyphSize       = 18.0
	hoverRadius     = 8.0
	modifierRadius  = 9.0
	chevronReach    = 5.0
	chevronBack     = 3.0
	previewAlpha    = 0.4
	guideLineWidth  = 1.0
	markerLineWidth = 1.5
)

// Frame: всё, что нужно для одного кадра. Рендерер модель не меняет.
type Frame struct {
	Pattern     pattern.Pattern
	RingSpacing float64
	Selected    pattern.StitchKind
	View        View
	// Hover: позиция указателя в экранных координатах, nil если нет.
	Hover *Point
}

type Renderer struct {
	catalog *pattern.Catalog
	theme   Theme
}

func NewRenderer(catalog *pattern.Catalog, theme Theme) *Renderer {
	if catalog == nil {
		catalog = pattern.DefaultCatalog()
	}
	if theme.Name == "" {
		theme = DefaultTheme()
	}
	return &Renderer{catalog: catalog, theme: theme}
}

func (r *Renderer) Theme() Theme { return r.theme }

func (r *Renderer) SetTheme(t Theme) { r.theme = t }

// projection переводит модель в экран: сдвиг на центр + смещение, затем масштаб.
type projection struct {
	cx, cy float64
	scale  float64
}

func (p projection) point(x, y float64) (float64, float64) {
	return p.cx + x*p.scale, p.cy + y*p.scale
}

func liveProjection(v View, width, height float64) projection {
	return projection{cx: width/2 + v.Offset.X, cy: height/2 + v.Offset.Y, scale: v.Scale}
}

// Draw очищает поверхность и рисует кадр.
func (r *Renderer) Draw(c Canvas, width, height float64, f Frame) {
	r.clear(c, width, height)

	proj := liveProjection(f.View, width, height)
	r.drawPattern(c, proj, f.Pattern, f.RingSpacing)

	if f.Hover != nil {
		r.drawHover(c, proj, f, width, height)
	}
}

// HoverTarget возвращает пустой слот под указателем, если он есть.
func HoverTarget(f Frame, width, height float64) (int, int, bool) {
	if f.Hover == nil {
		return 0, 0, false
	}
	m := f.View.ScreenToModel(*f.Hover, width, height)
	distance, angle := pattern.ToPolar(m.X, m.Y)
	ring := pattern.RingIndexForDistance(distance, f.RingSpacing)
	if ring < 0 || ring >= len(f.Pattern.Rings) {
		return 0, 0, false
	}
	rg := f.Pattern.Rings[ring]
	seg := pattern.SegmentIndexForAngle(angle, rg.Segments)
	if seg < 0 || seg >= len(rg.Stitches) || !rg.Stitches[seg].IsEmpty() {
		return 0, 0, false
	}
	return ring, seg, true
}

// ============================================================
// Pattern drawing
// ============================================================

func (r *Renderer) clear(c Canvas, width, height float64) {
	setColor(c, r.theme.Background)
	c.DrawRectangle(0, 0, width, height)
	c.Fill()
}

func (r *Renderer) drawPattern(c Canvas, proj projection, p pattern.Pattern, spacing float64) {
	r.drawRingGuides(c, proj, p, spacing)
	r.drawAngleGuides(c, proj, p, spacing)
	r.drawStitches(c, proj, p, spacing)
}

func (r *Renderer) drawRingGuides(c Canvas, proj projection, p pattern.Pattern, spacing float64) {
	setColor(c, r.theme.RingGuide)
	c.SetLineWidth(guideLineWidth)
	for i := range p.Rings {
		radius := float64(i+1) * spacing * proj.scale
		c.DrawCircle(proj.cx, proj.cy, radius)
		c.Stroke()
	}
}

func (r *Renderer) drawAngleGuides(c Canvas, proj projection, p pattern.Pattern, spacing float64) {
	if len(p.Rings) == 0 || p.Rings[0].Segments <= 0 {
		return
	}
	n := p.Rings[0].Segments
	outer := p.Radius(spacing)
	step := pattern.FullTurn / float64(n)

	setColor(c, r.theme.AngleGuide)
	c.SetLineWidth(guideLineWidth)
	for i := 0; i < n; i++ {
		x, y := proj.point(pattern.FromPolar(outer, float64(i)*step))
		c.MoveTo(proj.cx, proj.cy)
		c.LineTo(x, y)
		c.Stroke()
	}
}

func (r *Renderer) drawStitches(c Canvas, proj projection, p pattern.Pattern, spacing float64) {
	for ri, ring := range p.Rings {
		if ring.Segments <= 0 {
			continue
		}
		for si, s := range ring.Stitches {
			if si >= ring.Segments {
				break
			}
			if s.IsEmpty() {
				continue
			}
			x, y := proj.point(pattern.SlotCenter(ri, si, ring.Segments, spacing))
			r.drawStitch(c, x, y, pattern.MidAngle(si, ring.Segments), s, proj.scale, 1)
		}
	}
}

func (r *Renderer) drawHover(c Canvas, proj projection, f Frame, width, height float64) {
	ring, seg, ok := HoverTarget(f, width, height)
	if !ok {
		return
	}
	n := f.Pattern.Rings[ring].Segments
	x, y := proj.point(pattern.SlotCenter(ring, seg, n, f.RingSpacing))

	setColor(c, r.theme.Hover)
	c.DrawCircle(x, y, hoverRadius*proj.scale)
	c.Fill()

	if f.Selected != pattern.KindNone {
		r.drawStitch(c, x, y, pattern.MidAngle(seg, n), pattern.Plain(f.Selected), proj.scale, previewAlpha)
	}
}

// ============================================================
// Stitch glyphs
// ============================================================

// drawStitch рисует глиф в точке (x, y). Петли с модификатором рисуются
// кольцом цвета петли и шевроном вместо глифа.
func (r *Renderer) drawStitch(c Canvas, x, y, angle float64, s pattern.Stitch, scale, alpha float64) {
	info, ok := r.catalog.Info(s.Kind)
	if !ok {
		return
	}
	col := gg.Hex(info.Color)
	col.A = alpha

	if s.Modifier == pattern.ModNone {
		if setFont(c, glyphSize*scale) {
			setColor(c, col)
			c.DrawStringAnchored(info.Glyph, x, y, 0.5, 0.5)
		}
		return
	}

	setColor(c, col)
	c.SetLineWidth(markerLineWidth * scale)
	c.DrawCircle(x, y, modifierRadius*scale)
	c.Stroke()

	mod := r.theme.Increase
	if s.Modifier == pattern.ModDecrease {
		mod = r.theme.Decrease
	}
	setColor(c, withAlpha(mod, alpha*mod.A))
	drawChevron(c, x, y, angle, scale, s.Modifier == pattern.ModIncrease)
}

// drawChevron: вершина наружу для прибавки, внутрь для убавки.
func drawChevron(c Canvas, x, y, angle, scale float64, outward bool) {
	dir := 1.0
	if !outward {
		dir = -1
	}
	ux, uy := math.Cos(angle)*dir, math.Sin(angle)*dir
	vx, vy := -uy, ux

	ax, ay := x+ux*chevronReach*scale, y+uy*chevronReach*scale
	bx, by := x-ux*chevronBack*scale, y-uy*chevronBack*scale

	c.SetLineWidth(2 * scale)
	c.MoveTo(bx+vx*chevronReach*scale, by+vy*chevronReach*scale)
	c.LineTo(ax, ay)
	c.LineTo(bx-vx*chevronReach*scale, by-vy*chevronReach*scale)
	c.Stroke()
}
