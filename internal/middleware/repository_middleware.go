package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusvault/CampusVault/internal/services"
)

// RepositoryGate loads the authenticated user's record and applies the
// repository access gate before any repository route runs: unapproved
// accounts are rejected outright, approved accounts with an incomplete
// academic profile are told to finish their profile. Handlers for upload,
// delete and download re-check at action time on top of this.
func RepositoryGate(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	user, err := services.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	if err := services.CanBrowse(user); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	c.Locals("user", user)
	return c.Next()
}
