package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
)

const userLocalKey = "user"

// TokenAuth requires "Authorization: Token <value>" naming a known user.
func TokenAuth(userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Token ")
		if !found || strings.TrimSpace(token) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication credentials were not provided.",
			})
		}

		user, err := userRepo.FindByToken(strings.TrimSpace(token))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token.",
			})
		}

		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}
