package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  []string

	Editor   EditorConfig
	Services ServicesConfig
}

// EditorConfig: параметры сессий редактора и хранилища.
type EditorConfig struct {
	GuideLines   int
	RingSpacing  float64
	CanvasWidth  int
	CanvasHeight int
	Theme        string
	DBPath       string
	ExportDir    string
	Migrations   string
}

// ServicesConfig: адреса сервисов для gateway.
type ServicesConfig struct {
	EditorURL   string
	ExporterURL string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS"),
		Editor: EditorConfig{
			GuideLines:   getEnvAsInt("GUIDE_LINES", 8),
			RingSpacing:  getEnvAsFloat("RING_SPACING", 50),
			CanvasWidth:  getEnvAsInt("CANVAS_WIDTH", 800),
			CanvasHeight: getEnvAsInt("CANVAS_HEIGHT", 600),
			Theme:        getEnv("THEME", "light"),
			DBPath:       getEnv("EDITOR_DB_PATH", "data/db/editor.db"),
			ExportDir:    getEnv("EXPORT_DIR", "data/exports"),
			Migrations:   getEnv("EDITOR_MIGRATIONS", "migrations/001_init_projects.sql"),
		},
		Services: ServicesConfig{
			EditorURL:   getEnv("EDITOR_URL", "http://localhost:3001"),
			ExporterURL: getEnv("EXPORTER_URL", "http://localhost:3002"),
		},
	}
}

// IsDevelopment: окружение разработки.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// getEnvAsList читает список через запятую, пустые элементы отбрасываются.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
