package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pageflowhq/pageflow/internal/service"
	"github.com/pageflowhq/pageflow/internal/transfer"
)

type ApiKeyHandler struct {
	s service.ApiKeyService
}

func NewApiKeyHandler(s service.ApiKeyService) *ApiKeyHandler {
	return &ApiKeyHandler{s: s}
}

func (h *ApiKeyHandler) Create(c *fiber.Ctx) error {
	var req transfer.ApiKeyCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}

	if err := h.s.Create(c.Context(), GetUserID(c), req.KeyName); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "API key created")
}

func (h *ApiKeyHandler) List(c *fiber.Ctx) error {
	keys, err := h.s.List(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, keys)
}

func (h *ApiKeyHandler) Remove(c *fiber.Ctx) error {
	var req transfer.ApiKeyRemoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}

	if err := h.s.RemoveAPIKey(c.Context(), GetUserID(c), req.KeyID); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "API key removed")
}
