package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Akhand-Replit/facebook-handler/internal/service"
)

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := strconv.Atoi(c.Locals("user_id").(string))
	return int64(userID)
}

// statusForError picks an HTTP status for a service failure; the error
// message itself is rendered verbatim.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrDuplicateName):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrNoChanges):
		return fiber.StatusBadRequest
	}

	var apiErr *service.ExternalAPIError
	if errors.As(err, &apiErr) {
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
