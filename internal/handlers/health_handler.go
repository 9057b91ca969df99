package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HandleHealth reports liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
