package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pageflowhq/pageflow/internal/service"
	"github.com/pageflowhq/pageflow/internal/transfer"
)

type CommentHandler struct {
	e service.EngagementService
	a service.ActionService
	p service.PageService
}

func NewCommentHandler(e service.EngagementService, a service.ActionService, p service.PageService) *CommentHandler {
	return &CommentHandler{e: e, a: a, p: p}
}

func queryLimit(c *fiber.Ctx) int {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return limit
}

// List aggregates recent comments across the account's selected pages. An
// optional page_id query narrows the aggregation to one page.
func (h *CommentHandler) List(c *fiber.Ctx) error {
	pages, err := selectedPages(c, h.p)
	if err != nil {
		return respondError(c, err)
	}

	comments, err := h.e.GetComments(c.Context(), GetAccount(c), pages, queryLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, comments)
}

// ListForPost returns the comments under one post of an owned page.
func (h *CommentHandler) ListForPost(c *fiber.Ctx) error {
	comments, err := h.e.GetPostComments(c.Context(), GetUserID(c), c.Params("postId"), c.Query("page_id"), queryLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, comments)
}

func (h *CommentHandler) Reply(c *fiber.Ctx) error {
	var req transfer.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}

	replyID, err := h.a.ReplyToComment(c.Context(), GetUserID(c), req.PageID, c.Params("commentId"), req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.Map{"id": replyID})
}

func (h *CommentHandler) Like(c *fiber.Ctx) error {
	return h.action(c, h.a.LikeComment, "Comment liked")
}

func (h *CommentHandler) Unlike(c *fiber.Ctx) error {
	return h.action(c, h.a.UnlikeComment, "Comment unliked")
}

func (h *CommentHandler) Hide(c *fiber.Ctx) error {
	return h.action(c, h.a.HideComment, "Comment hidden")
}

func (h *CommentHandler) Unhide(c *fiber.Ctx) error {
	return h.action(c, h.a.UnhideComment, "Comment unhidden")
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	return h.action(c, h.a.DeleteComment, "Comment deleted")
}

func (h *CommentHandler) action(c *fiber.Ctx, fn func(ctx context.Context, ownerID int64, platformPageID, commentID string) error, message string) error {
	// DELETE calls carry the page id as a query parameter; POST calls as a
	// JSON body.
	var req transfer.CommentActionRequest
	_ = c.BodyParser(&req)
	if req.PageID == "" {
		req.PageID = c.Query("page_id")
	}

	if err := fn(c.Context(), GetUserID(c), req.PageID, c.Params("commentId")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, message)
}
