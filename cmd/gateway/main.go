package main

import (
	"fmt"
	"log"
	"time"

	"crochet-studio/internal/common/config"
	"crochet-studio/internal/common/middleware"
	"crochet-studio/internal/gateway/handlers"
	"crochet-studio/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()
	editorURL := cfg.Services.EditorURL
	exporterURL := cfg.Services.ExporterURL

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Crochet Studio Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("GATEWAY"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(map[string]string{
		"editor":   editorURL,
		"exporter": exporterURL,
	}))
	app.Get("/health/startup", handlers.StartupProbe)

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Crochet Studio API v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	// Editor Service
	toEditor := proxy.Pass("/api/v1", editorURL)
	api.Post("/sessions", toEditor)
	api.All("/sessions/*", toEditor)
	api.Get("/projects", toEditor)
	api.All("/projects/*", toEditor)

	// Exporter Service
	api.Post("/render", proxy.ProxyTo(exporterURL+"/render"))
	api.Post("/export/:format", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/export/%s", exporterURL, c.Params("format")))
	})

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /sessions and /projects to %s, /render and /export to %s", editorURL, exporterURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
