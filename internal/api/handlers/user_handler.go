package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Akhand-Replit/facebook-handler/internal/service"
	"github.com/Akhand-Replit/facebook-handler/internal/transfer"
)

type UserHandler struct {
	s service.AuthService
}

func NewUserHandler(s service.AuthService) *UserHandler {
	return &UserHandler{s: s}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userID := GetUserID(c)

	user, err := h.s.GetUserInfo(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email.String,
		"created_at": user.CreatedAt,
	})
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse request body",
		})
	}

	if err := h.s.ChangePassword(c.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "password updated successfully",
	})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse request body",
		})
	}

	if err := h.s.UpdateProfile(c.Context(), userID, req.Email); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "profile updated successfully",
	})
}
