package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"crochet-studio/internal/crochet/pattern"

	"github.com/gogpu/gg/recording"

	_ "github.com/gogpu/gg-svg"
	_ "github.com/gogpu/gg/recording/backends/raster"
)

// ErrUnknownFormat: формат выгрузки не поддерживается.
var ErrUnknownFormat = errors.New("unknown export format")

// ============================================================
// Static export layout
// ============================================================

const (
	exportMargin   = 40.0
	exportTitleH   = 60.0
	legendWidth    = 280.0
	legendRowH     = 28.0
	legendHeaderH  = 40.0
	titleFontSize  = 22.0
	legendFontSize = 14.0
	defaultLabel   = "Crochet pattern"
)

// Layout: размеры статической выгрузки и центр узора.
type Layout struct {
	Width, Height int
	CenterX       float64
	CenterY       float64
	LegendX       float64
	LegendY       float64
}

// LayoutFor подбирает поверхность под весь узор и легенду.
func (r *Renderer) LayoutFor(p pattern.Pattern, spacing float64) Layout {
	radius := math.Max(p.Radius(spacing), spacing)
	box := 2*radius + 2*exportMargin
	legendH := legendHeaderH + float64(len(r.catalog.Kinds())+2)*legendRowH + exportMargin

	return Layout{
		Width:   int(math.Ceil(box + legendWidth)),
		Height:  int(math.Ceil(exportTitleH + math.Max(box, legendH))),
		CenterX: exportMargin + radius,
		CenterY: exportTitleH + exportMargin + radius,
		LegendX: box,
		LegendY: exportTitleH + exportMargin,
	}
}

// DrawStatic рисует узор в масштабе 1 теми же процедурами, что и живой вид,
// плюс заголовок и легенду.
func (r *Renderer) DrawStatic(c Canvas, l Layout, p pattern.Pattern, spacing float64, label string) {
	if label == "" {
		label = defaultLabel
	}
	r.clear(c, float64(l.Width), float64(l.Height))

	if setFont(c, titleFontSize) {
		setColor(c, r.theme.Text)
		c.DrawStringAnchored(label, float64(l.Width)/2, exportTitleH/2, 0.5, 0.5)
	}

	r.drawPattern(c, projection{cx: l.CenterX, cy: l.CenterY, scale: 1}, p, spacing)
	r.drawLegend(c, l)
}

func (r *Renderer) drawLegend(c Canvas, l Layout) {
	x := l.LegendX
	y := l.LegendY

	if setFont(c, legendFontSize) {
		setColor(c, r.theme.Text)
		c.DrawStringAnchored("Legend:", x, y, 0, 0.5)
	}
	y += legendHeaderH

	for _, info := range r.catalog.Kinds() {
		r.drawStitch(c, x+10, y, 0, pattern.Plain(info.Kind), 1, 1)
		if setFont(c, legendFontSize) {
			setColor(c, r.theme.Text)
			c.DrawStringAnchored(info.Description, x+30, y, 0, 0.5)
		}
		y += legendRowH
	}

	for _, m := range []struct {
		mod  pattern.Modifier
		desc string
	}{
		{pattern.ModIncrease, "Increase"},
		{pattern.ModDecrease, "Decrease"},
	} {
		// шеврон рисуем «вверх», как в заголовке колонки
		r.drawStitch(c, x+10, y, -math.Pi/2, pattern.Stitch{Kind: pattern.KindChain, Modifier: m.mod}, 1, 1)
		if setFont(c, legendFontSize) {
			setColor(c, r.theme.Text)
			c.DrawStringAnchored(m.desc, x+30, y, 0, 0.5)
		}
		y += legendRowH
	}
}

// ============================================================
// Export
// ============================================================

// ExportPNG растеризует статическую выгрузку.
func (r *Renderer) ExportPNG(p pattern.Pattern, spacing float64, label string) ([]byte, error) {
	l := r.LayoutFor(p, spacing)
	c := NewRasterCanvas(l.Width, l.Height)
	r.DrawStatic(c, l, p, spacing, label)

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Record записывает статическую выгрузку как набор команд рисования -
// именно их получает внешний генератор документов.
func (r *Renderer) Record(p pattern.Pattern, spacing float64, label string) *recording.Recording {
	l := r.LayoutFor(p, spacing)
	rec := recording.NewRecorder(l.Width, l.Height)
	r.DrawStatic(rec, l, p, spacing, label)
	return rec.FinishRecording()
}

// ExportVector проигрывает запись в зарегистрированный backend ("pdf", "svg", "raster").
func (r *Renderer) ExportVector(format string, p pattern.Pattern, spacing float64, label string) ([]byte, error) {
	if !recording.IsRegistered(format) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	backend, err := recording.NewBackend(format)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", format, err)
	}

	rec := r.Record(p, spacing, label)
	if err := rec.Playback(backend); err != nil {
		return nil, fmt.Errorf("playback %s: %w", format, err)
	}
	return backendBytes(backend, format)
}

func backendBytes(backend recording.Backend, format string) ([]byte, error) {
	if wb, ok := backend.(recording.WriterBackend); ok {
		var buf bytes.Buffer
		if _, err := wb.WriteTo(&buf); err != nil {
			return nil, fmt.Errorf("write %s: %w", format, err)
		}
		return buf.Bytes(), nil
	}

	fb, ok := backend.(recording.FileBackend)
	if !ok {
		return nil, fmt.Errorf("%w: %s backend has no output", ErrUnknownFormat, format)
	}
	dir, err := os.MkdirTemp("", "crochet-export-*")
	if err != nil {
		return nil, fmt.Errorf("mkdir temp: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "export."+format)
	if err := fb.SaveToFile(path); err != nil {
		return nil, fmt.Errorf("save %s: %w", format, err)
	}
	return os.ReadFile(path)
}

// Format: описание формата выгрузки для HTTP-слоя.
type Format struct {
	Name        string
	ContentType string
	Extension   string
}

var formats = map[string]Format{
	"png": {Name: "png", ContentType: "image/png", Extension: ".png"},
	"pdf": {Name: "pdf", ContentType: "application/pdf", Extension: ".pdf"},
	"svg": {Name: "svg", ContentType: "image/svg+xml", Extension: ".svg"},
	"txt": {Name: "txt", ContentType: "text/plain; charset=utf-8", Extension: ".txt"},
}

func LookupFormat(name string) (Format, error) {
	f, ok := formats[name]
	if !ok {
		return Format{}, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return f, nil
}

// Export выгружает узор в один из форматов png, pdf, svg, txt.
func (r *Renderer) Export(format string, p pattern.Pattern, spacing float64, label string) ([]byte, Format, error) {
	f, err := LookupFormat(format)
	if err != nil {
		return nil, Format{}, err
	}

	var data []byte
	switch f.Name {
	case "png":
		data, err = r.ExportPNG(p, spacing, label)
	case "txt":
		data = []byte(pattern.Describe(p, r.catalog))
	default:
		data, err = r.ExportVector(f.Name, p, spacing, label)
	}
	if err != nil {
		return nil, Format{}, err
	}
	return data, f, nil
}
