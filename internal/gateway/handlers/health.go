package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

var probeClient = &http.Client{Timeout: 2 * time.Second}

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe опрашивает /health/live каждого сервиса.
// Если хоть один не отвечает: 503 со списком состояний.
func ReadinessProbe(services map[string]string) fiber.Handler {
	return func(c fiber.Ctx) error {
		states := make(fiber.Map, len(services))
		ready := true
		for name, baseURL := range services {
			resp, err := probeClient.Get(baseURL + "/health/live")
			if err != nil {
				states[name] = "unreachable"
				ready = false
				continue
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				states[name] = resp.Status
				ready = false
				continue
			}
			states[name] = "alive"
		}

		if !ready {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "not ready",
				"services": states,
			})
		}
		return c.JSON(fiber.Map{
			"status":   "ready",
			"services": states,
		})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
