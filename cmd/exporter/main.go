package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"crochet-studio/internal/common/config"
	"crochet-studio/internal/common/middleware"
	"crochet-studio/internal/exporter/handlers"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/recording"
)

// ============================================================
// Exporter Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3002"
	}
	if cfg.IsDevelopment() {
		gg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Exporter Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("EXPORT"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready", "backends": recording.Backends()})
	})

	// ============================================================
	// Export Routes
	// ============================================================

	app.Post("/render", handlers.RenderPNG)
	app.Post("/export/:format", handlers.Export)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Exporter Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
