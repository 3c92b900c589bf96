package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// ============================================================
// Fonts
// ============================================================

// fontCache держит один FontSource и лица по кеглю (округлённому до 0.5pt).
type fontCache struct {
	once   sync.Once
	source *text.FontSource
	err    error

	mu    sync.Mutex
	faces map[float64]text.Face
}

var glyphFonts = &fontCache{faces: make(map[float64]text.Face)}

func (f *fontCache) face(size float64) (text.Face, error) {
	f.once.Do(func() {
		f.source, f.err = text.NewFontSource(goregular.TTF)
		if f.err != nil {
			f.err = fmt.Errorf("load glyph font: %w", f.err)
		}
	})
	if f.err != nil {
		return nil, f.err
	}

	key := math.Max(1, math.Round(size*2)/2)

	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	face := f.source.Face(key)
	f.faces[key] = face
	return face, nil
}

// setFont выставляет лицо нужного кегля; без шрифта текст просто не рисуется.
func setFont(c Canvas, size float64) bool {
	face, err := glyphFonts.face(size)
	if err != nil {
		return false
	}
	c.SetFont(face)
	if fs, ok := c.(fontSizer); ok {
		fs.SetFontSize(size)
	}
	return true
}
