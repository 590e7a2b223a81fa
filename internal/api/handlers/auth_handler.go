package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	config "github.com/Akhand-Replit/facebook-handler/configs"
	"github.com/Akhand-Replit/facebook-handler/internal/service"
	"github.com/Akhand-Replit/facebook-handler/internal/transfer"
	"github.com/Akhand-Replit/facebook-handler/pkg/utils"
)

type AuthHandler struct {
	s   service.AuthService
	cfg config.Config
}

func NewAuthHandler(cfg config.Config, s service.AuthService) *AuthHandler {
	return &AuthHandler{s: s, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req transfer.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse request body",
		})
	}

	userID, err := h.s.Register(c.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user_id": userID,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req transfer.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse request body",
		})
	}

	userID, err := h.s.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, fmt.Sprintf("%d", userID), 24*time.Hour)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   false,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user_id": userID,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:   h.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return c.SendStatus(fiber.StatusOK)
}
