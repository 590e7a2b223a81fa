package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Akhand-Replit/facebook-handler/internal/service"
	"github.com/Akhand-Replit/facebook-handler/internal/transfer"
)

type CommentHandler struct {
	s service.CommentService
}

func NewCommentHandler(s service.CommentService) *CommentHandler {
	return &CommentHandler{s: s}
}

func (h *CommentHandler) ListComments(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := int64(c.QueryInt("post_id", 0))
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)
	term := c.Query("search")

	var err error
	var comments interface{}
	if term != "" {
		comments, err = h.s.Search(c.Context(), postID, userID, term, limit, offset)
	} else {
		comments, err = h.s.List(c.Context(), postID, userID, limit, offset)
	}
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(comments)
}

func (h *CommentHandler) CountComments(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := int64(c.QueryInt("post_id", 0))

	count, err := h.s.Count(c.Context(), postID, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"count": count})
}

// SyncComments pulls the remote comment thread into the local cache.
func (h *CommentHandler) SyncComments(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := int64(c.QueryInt("post_id", 0))
	limit := c.QueryInt("limit", 50)

	comments, err := h.s.Fetch(c.Context(), postID, userID, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}

func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.CommentCreation
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse request body",
		})
	}

	result, err := h.s.Create(c.Context(), userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CommentHandler) UpdateComment(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.CommentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse request body",
		})
	}

	if err := h.s.Update(c.Context(), userID, &req); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "comment updated successfully",
	})
}

func (h *CommentHandler) RemoveComment(c *fiber.Ctx) error {
	userID := GetUserID(c)
	fbCommentID := c.Query("fb_comment_id")

	if err := h.s.Delete(c.Context(), userID, fbCommentID); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "comment deleted successfully",
	})
}

// ReplyToComment posts into a comment's sub-thread; the reply is not
// cached locally since parent linkage is not part of the data model.
func (h *CommentHandler) ReplyToComment(c *fiber.Ctx) error {
	userID := GetUserID(c)
	fbCommentID := c.Query("fb_comment_id")

	var req transfer.CommentCreation
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to parse request body",
		})
	}

	replyID, err := h.s.Reply(c.Context(), userID, fbCommentID, req.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"fb_comment_id": replyID,
	})
}
