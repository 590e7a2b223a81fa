package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Akhand-Replit/facebook-handler/internal/service"
	"github.com/Akhand-Replit/facebook-handler/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{s: s}
}

// ListPosts serves cached posts; with a search term it filters by
// substring match on content, newest first either way.
func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID := int64(c.QueryInt("account_id", 0))
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	term := c.Query("search")

	var err error
	var posts interface{}
	if term != "" {
		posts, err = h.s.Search(c.Context(), accountID, userID, term, limit, offset)
	} else {
		posts, err = h.s.List(c.Context(), accountID, userID, limit, offset)
	}
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) PostInfo(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := int64(c.QueryInt("id", 0))

	detail, err := h.s.Info(c.Context(), postID, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(detail)
}

func (h *PostHandler) CountPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID := int64(c.QueryInt("account_id", 0))

	count, err := h.s.Count(c.Context(), accountID, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"count": count})
}

// SyncPosts pulls the page feed from Facebook into the local cache.
func (h *PostHandler) SyncPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID := int64(c.QueryInt("account_id", 0))
	limit := c.QueryInt("limit", 10)

	posts, err := h.s.Fetch(c.Context(), accountID, userID, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID := int64(c.QueryInt("account_id", 0))

	pc := transfer.PostCreation{
		Content: c.FormValue("content"),
		Link:    c.FormValue("link"),
	}

	// optional image; when attached the post goes to the photo endpoint
	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}

	result, err := h.s.Create(c.Context(), accountID, userID, &pc, image)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PostUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse request body",
		})
	}

	if err := h.s.Update(c.Context(), userID, &req); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "post updated successfully",
	})
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	fbPostID := c.Query("fb_post_id")
	accountID := int64(c.QueryInt("account_id", 0))

	if err := h.s.Delete(c.Context(), userID, fbPostID, accountID); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "post deleted successfully",
	})
}
