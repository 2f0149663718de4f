package handlers

import (
	"errors"

	"github.com/etuitionbd/etuition_backend/services"
	"github.com/gofiber/fiber/v2"
)

// serviceError translates service-layer sentinels into JSON error responses.
// Anything unrecognized is a 500 with a generic message so internals never
// leak to clients.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidArgument),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrNothingToUpdate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong"})
	}
}
