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

type AccountHandler struct {
	s   service.AccountService
	fb  service.FacebookAuthService
	cfg config.Config
}

func NewAccountHandler(cfg config.Config, s service.AccountService, fb service.FacebookAuthService) *AccountHandler {
	return &AccountHandler{s: s, fb: fb, cfg: cfg}
}

func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accounts, err := h.s.List(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(accounts)
}

// AddAccount links a page by manually supplied token. With
// exchange_token set the short-lived token is first traded for a
// long-lived one.
func (h *AccountHandler) AddAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.AccountCreation
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse request body",
		})
	}

	if req.ExchangeToken && req.AccessToken != "" {
		token, expiresAt, err := h.fb.ExchangeForLongLivedToken(c.Context(), req.AccessToken)
		if err != nil {
			return fail(c, err)
		}
		req.AccessToken = token
		req.ExpiresAt = expiresAt.Unix()
	}

	accountID, err := h.s.Add(c.Context(), userID, &req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"account_id": accountID,
	})
}

func (h *AccountHandler) UpdateAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID := c.QueryInt("id", 0)

	var patch transfer.AccountPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse request body",
		})
	}

	if err := h.s.Update(c.Context(), int64(accountID), userID, &patch); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "account updated successfully",
	})
}

func (h *AccountHandler) RemoveAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID := c.QueryInt("id", 0)

	if err := h.s.Delete(c.Context(), int64(accountID), userID); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "account deleted successfully",
	})
}

func (h *AccountHandler) RefreshToken(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID := c.QueryInt("id", 0)

	if err := h.fb.RefreshIfNeeded(c.Context(), int64(accountID), userID); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "token refreshed if needed",
	})
}

func (h *AccountHandler) TokenStatus(c *fiber.Ctx) error {
	accountID := c.QueryInt("id", 0)

	// ownership check first
	if _, err := h.s.Get(c.Context(), int64(accountID), GetUserID(c)); err != nil {
		return fail(c, err)
	}

	expired, err := h.s.IsTokenExpired(c.Context(), int64(accountID))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"expired": expired,
	})
}

// ConnectFacebook starts the OAuth flow; the state parameter is a short
// lived JWT naming the requesting user.
func (h *AccountHandler) ConnectFacebook(c *fiber.Ctx) error {
	userID := GetUserID(c)

	state, err := utils.GenerateToken(h.cfg.SecretKey, fmt.Sprintf("%d", userID), 10*time.Minute)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	return c.Redirect(h.fb.GetAuthURL(state))
}

// FacebookCallback finishes the OAuth flow: the code is exchanged for a
// long-lived user token and the user's pages are returned so the client
// can pick which ones to link via AddAccount.
func (h *AccountHandler) FacebookCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	if _, err := utils.ValidateToken(h.cfg.SecretKey, state); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid state",
		})
	}

	shortToken, err := h.fb.ExchangeCode(c.Context(), code)
	if err != nil {
		return fail(c, err)
	}

	longToken, expiresAt, err := h.fb.ExchangeForLongLivedToken(c.Context(), shortToken)
	if err != nil {
		return fail(c, err)
	}

	pages, err := h.fb.GetPages(c.Context(), longToken)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token": longToken,
		"expires_at":   expiresAt.Unix(),
		"pages":        pages,
	})
}
