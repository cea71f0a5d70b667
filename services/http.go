package services

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service sentinels to HTTP statuses. Anything
// unrecognized is a 500 and gets logged.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.Is(err, ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUsernameTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username already registered"})
	}
	log.Printf("DB Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
