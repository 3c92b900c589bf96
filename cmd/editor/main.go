package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"crochet-studio/internal/common/config"
	"crochet-studio/internal/common/middleware"
	"crochet-studio/internal/crochet/pattern"
	"crochet-studio/internal/crochet/render"
	"crochet-studio/internal/editor/handlers"
	"crochet-studio/internal/editor/repository"
	"crochet-studio/internal/editor/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gogpu/gg"
)

// ============================================================
// Editor Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3001"
	}
	if cfg.IsDevelopment() {
		gg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	db, err := repository.OpenSQLite(cfg.Editor.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.Editor.Migrations); err != nil {
		log.Fatalf("init db: %v", err)
	}

	theme, err := render.ThemeByName(cfg.Editor.Theme)
	if err != nil {
		log.Printf("[EDITOR] %v, using default theme", err)
		theme = render.DefaultTheme()
	}

	patternCfg := pattern.DefaultConfig()
	patternCfg.GuideLines = pattern.ClampInt(cfg.Editor.GuideLines, pattern.MinGuideLines, pattern.MaxGuideLines)
	patternCfg.RingSpacing = pattern.Clamp(cfg.Editor.RingSpacing, pattern.MinRingSpacing, pattern.MaxRingSpacing)

	sessions := service.NewManager(service.Options{
		Pattern: patternCfg,
		Width:   cfg.Editor.CanvasWidth,
		Height:  cfg.Editor.CanvasHeight,
		Theme:   theme,
	}, repo)
	fileStorage := service.NewFileStorage(cfg.Editor.ExportDir)
	editorHandler := handlers.NewEditorHandler(sessions, repo, fileStorage)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Editor Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("EDITOR"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := db.PingContext(context.Background()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ready", "sessions": sessions.Len()})
	})

	// ============================================================
	// Editor Routes
	// ============================================================

	editorHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Editor Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
