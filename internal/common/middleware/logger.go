package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger пишет строку на запрос. service попадает в префикс строки.
func Logger(service string) fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[" + service + "] [${time}] ${status} - ${latency} ${method} ${path}?${queryParams} | ${resHeader:X-Animation}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
