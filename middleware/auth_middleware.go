package middleware

import (
	config "github.com/etuitionbd/etuition_backend/configs"
	"github.com/etuitionbd/etuition_backend/database"
	"github.com/etuitionbd/etuition_backend/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

// Protected verifies the bearer credential and leaves the parsed token in
// c.Locals("user"); downstream gates read claims only, they hold no state.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// TokenEmail extracts the verified account email from the request token.
func TokenEmail(c *fiber.Ctx) string {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	email, _ := claims["email"].(string)
	return email
}

func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Locals("user").(*jwt.Token)
		claims := token.Claims.(jwt.MapClaims)
		role, _ := claims["role"].(string)

		if role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Admin access required",
			})
		}
		return c.Next()
	}
}

// ApprovedTutorRequired resolves the caller's tutor profile and rejects
// anyone without an approved one. The profile is stashed in locals so
// handlers don't re-query it.
func ApprovedTutorRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := TokenEmail(c)
		if email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized access"})
		}

		var tutor models.Tutor
		if err := database.DB.Where("email = ?", email).First(&tutor).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied: Tutor not found"})
		}
		if tutor.Status != models.TutorStatusApproved {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied: Tutor is not verified"})
		}

		c.Locals("tutor", &tutor)
		return c.Next()
	}
}
