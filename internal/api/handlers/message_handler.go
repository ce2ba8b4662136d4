package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pageflowhq/pageflow/internal/service"
	"github.com/pageflowhq/pageflow/internal/transfer"
)

type MessageHandler struct {
	e service.EngagementService
	a service.ActionService
	p service.PageService
}

func NewMessageHandler(e service.EngagementService, a service.ActionService, p service.PageService) *MessageHandler {
	return &MessageHandler{e: e, a: a, p: p}
}

// ListConversations aggregates Messenger conversations across the account's
// selected pages, optionally narrowed by a page_id query.
func (h *MessageHandler) ListConversations(c *fiber.Ctx) error {
	pages, err := selectedPages(c, h.p)
	if err != nil {
		return respondError(c, err)
	}

	conversations, err := h.e.GetConversations(c.Context(), pages, queryLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, conversations)
}

func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	messages, err := h.e.GetConversationMessages(c.Context(), GetUserID(c), c.Params("conversationId"), c.Query("page_id"), queryLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, messages)
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req transfer.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}

	messageID, err := h.a.SendMessage(c.Context(), GetUserID(c), req.PageID, req.RecipientID, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.Map{"id": messageID})
}

func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	var req transfer.ConversationReadRequest
	_ = c.BodyParser(&req)
	if req.PageID == "" {
		req.PageID = c.Query("page_id")
	}

	if err := h.a.MarkConversationRead(c.Context(), GetUserID(c), req.PageID, c.Params("conversationId")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "Conversation marked as read")
}
