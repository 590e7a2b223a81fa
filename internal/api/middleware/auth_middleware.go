package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"

	config "github.com/Akhand-Replit/facebook-handler/configs"
	"github.com/Akhand-Replit/facebook-handler/pkg/utils"
)

type AuthMiddleware struct {
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(m.cfg.CookieName)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not logged in",
			})
		}

		claims, err := utils.ValidateToken(m.cfg.SecretKey, tokenString)
		if err != nil {
			c.Cookie(&fiber.Cookie{
				Name:   m.cfg.CookieName,
				Value:  "",
				Path:   "/",
				MaxAge: -1, // Delete cookie
			})

			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}
