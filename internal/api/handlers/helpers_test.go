package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/Akhand-Replit/facebook-handler/internal/service"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrUserNotFound, fiber.StatusNotFound},
		{service.ErrAccountNotFound, fiber.StatusNotFound},
		{service.ErrPostNotFound, fiber.StatusNotFound},
		{service.ErrCommentNotFound, fiber.StatusNotFound},
		{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{service.ErrDuplicateUsername, fiber.StatusConflict},
		{service.ErrDuplicateName, fiber.StatusConflict},
		{service.ErrNoChanges, fiber.StatusBadRequest},
		{&service.ExternalAPIError{StatusCode: 400, Body: "bad request"}, fiber.StatusBadGateway},
		{fmt.Errorf("sync failed: %w", &service.ExternalAPIError{Body: "timeout"}), fiber.StatusBadGateway},
		{errors.New("something else"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusForError(tc.err), "error: %v", tc.err)
	}
}
