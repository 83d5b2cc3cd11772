package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/configs"
	database "dndbuilder_backend/internals/databases"
)

func BaseRoutes(app *fiber.App, s *configs.Settings, db *gorm.DB) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": s.AppName,
			"version": s.AppVersion,
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":         "healthy",
			"message":        "API is running",
			"database":       "connected",
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		}
		if err := database.Ping(c.UserContext(), db); err != nil {
			body["status"] = "unhealthy"
			body["database"] = "disconnected"
			return c.Status(fiber.StatusServiceUnavailable).JSON(body)
		}
		return c.JSON(body)
	})
}
