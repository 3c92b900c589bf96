package render

import (
	"fmt"

	"github.com/gogpu/gg"
)

// ============================================================
// Themes
// ============================================================

type Theme struct {
	Name       string
	Background gg.RGBA
	RingGuide  gg.RGBA
	AngleGuide gg.RGBA
	Hover      gg.RGBA
	Text       gg.RGBA
	Increase   gg.RGBA
	Decrease   gg.RGBA
}

var themes = map[string]Theme{
	"light": {
		Name:       "light",
		Background: gg.Hex("#ffffff"),
		RingGuide:  gg.Hex("#dddddd"),
		AngleGuide: gg.Hex("#eeeeee"),
		Hover:      gg.RGBA{A: 0.1},
		Text:       gg.Hex("#2c3e50"),
		Increase:   gg.Hex("#27ae60"),
		Decrease:   gg.Hex("#c0392b"),
	},
	"dark": {
		Name:       "dark",
		Background: gg.Hex("#1e1e24"),
		RingGuide:  gg.Hex("#44444c"),
		AngleGuide: gg.Hex("#33333a"),
		Hover:      gg.RGBA{R: 1, G: 1, B: 1, A: 0.12},
		Text:       gg.Hex("#ecf0f1"),
		Increase:   gg.Hex("#2ecc71"),
		Decrease:   gg.Hex("#e74c3c"),
	},
	"contrast": {
		Name:       "contrast",
		Background: gg.Hex("#000000"),
		RingGuide:  gg.Hex("#ffffff"),
		AngleGuide: gg.Hex("#bbbbbb"),
		Hover:      gg.RGBA{R: 1, G: 1, A: 0.3},
		Text:       gg.Hex("#ffffff"),
		Increase:   gg.Hex("#00ff00"),
		Decrease:   gg.Hex("#ff00ff"),
	},
}

func DefaultTheme() Theme {
	return themes["light"]
}

// ThemeByName возвращает тему по имени.
func ThemeByName(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
	return t, nil
}

func setColor(c Canvas, col gg.RGBA) {
	c.SetRGBA(col.R, col.G, col.B, col.A)
}

func withAlpha(col gg.RGBA, a float64) gg.RGBA {
	col.A = a
	return col
}
