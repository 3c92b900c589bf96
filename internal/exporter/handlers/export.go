package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"crochet-studio/internal/crochet/pattern"
	"crochet-studio/internal/crochet/render"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Export Handlers
// ============================================================

// exportRequest: узор для выгрузки без сессии.
type exportRequest struct {
	Rings       []pattern.Ring `json:"rings"`
	RingSpacing float64        `json:"ring_spacing"`
	Label       string         `json:"label"`
	Theme       string         `json:"theme"`
}

// RenderPNG рисует присланный узор в PNG с легендой.
func RenderPNG(c fiber.Ctx) error {
	return export(c, "png")
}

// Export выгружает присланный узор в png|pdf|svg|txt.
func Export(c fiber.Ctx) error {
	return export(c, c.Params("format"))
}

func export(c fiber.Ctx, format string) error {
	log.Printf("[EXPORT] Received request, format: %s", format)
	log.Printf("[EXPORT] Content-Length: %d", len(c.Body()))

	if len(c.Body()) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "body required",
		})
	}

	var req exportRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		log.Printf("[EXPORT] Decode error: %v", err)
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid JSON payload",
		})
	}

	catalog := pattern.DefaultCatalog()
	p := pattern.Pattern{Rings: req.Rings}
	if err := p.Validate(catalog); err != nil {
		return c.Status(422).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	theme := render.DefaultTheme()
	if req.Theme != "" {
		t, err := render.ThemeByName(req.Theme)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		theme = t
	}
	spacing := pattern.Clamp(req.RingSpacing, pattern.MinRingSpacing, pattern.MaxRingSpacing)
	if req.RingSpacing == 0 {
		spacing = pattern.DefaultRingSpacing
	}

	renderer := render.NewRenderer(catalog, theme)
	data, f, err := renderer.Export(format, p, spacing, req.Label)
	if err != nil {
		log.Printf("[EXPORT] Export error: %v", err)
		status := 500
		if errors.Is(err, render.ErrUnknownFormat) {
			status = 400
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("[EXPORT] Export successful, %d bytes", len(data))
	c.Set("Content-Type", f.ContentType)
	return c.Send(data)
}
