package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pageflowhq/pageflow/internal/service"
	"github.com/pageflowhq/pageflow/internal/transfer"
)

type BusinessHandler struct {
	s service.BusinessService
}

func NewBusinessHandler(s service.BusinessService) *BusinessHandler {
	return &BusinessHandler{s: s}
}

func (h *BusinessHandler) Info(c *fiber.Ctx) error {
	info := h.s.Info(GetAccount(c))
	return respondData(c, fiber.Map{
		"connected": info != nil,
		"business":  info,
	})
}

func (h *BusinessHandler) Connect(c *fiber.Ctx) error {
	var req transfer.ConnectBusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}

	info, err := h.s.Connect(c.Context(), GetAccount(c), req.SystemUserToken)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, info)
}

func (h *BusinessHandler) Disconnect(c *fiber.Ctx) error {
	if err := h.s.Disconnect(c.Context(), GetAccount(c)); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "Business Manager disconnected")
}

// Validate re-checks the stored credential against the platform without
// touching the page directory.
func (h *BusinessHandler) Validate(c *fiber.Ctx) error {
	valid, message, err := h.s.ValidateConnected(c.Context(), GetAccount(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.Map{
		"valid":   valid,
		"message": message,
	})
}

// PreviewPages lists the pages reachable through the connected business
// without persisting anything.
func (h *BusinessHandler) PreviewPages(c *fiber.Ctx) error {
	pages, err := h.s.PreviewPages(c.Context(), GetAccount(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, pages)
}
