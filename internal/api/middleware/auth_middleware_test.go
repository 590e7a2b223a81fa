package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/Akhand-Replit/facebook-handler/configs"
	"github.com/Akhand-Replit/facebook-handler/internal/api/middleware"
	"github.com/Akhand-Replit/facebook-handler/pkg/utils"
)

func newProtectedApp(cfg config.Config) *fiber.App {
	app := fiber.New()
	m := middleware.NewAuthMiddleware(cfg)
	app.Get("/protected", m.AuthMiddleware(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id")})
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	cfg := config.Config{SecretKey: "jwt-secret", CookieName: "fbh_session"}
	app := newProtectedApp(cfg)

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := utils.GenerateToken(cfg.SecretKey, "42", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("expired token clears cookie", func(t *testing.T) {
		token, err := utils.GenerateToken(cfg.SecretKey, "42", -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var cleared bool
		for _, c := range resp.Cookies() {
			if c.Name == cfg.CookieName && c.MaxAge < 0 {
				cleared = true
			}
		}
		assert.True(t, cleared)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "not-a-jwt"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
