package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pageflowhq/pageflow/internal/service"
	"github.com/pageflowhq/pageflow/internal/transfer"
)

type PageHandler struct {
	s    service.PageService
	sync service.SyncService
}

func NewPageHandler(s service.PageService, sync service.SyncService) *PageHandler {
	return &PageHandler{s: s, sync: sync}
}

func (h *PageHandler) List(c *fiber.Ctx) error {
	pages, err := h.s.ListPages(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, pages)
}

func (h *PageHandler) ListSelected(c *fiber.Ctx) error {
	pages, err := h.s.ListSelectedPages(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, pages)
}

// Sync pulls the account's pages from every connected source and reconciles
// them into the directory.
func (h *PageHandler) Sync(c *fiber.Ctx) error {
	pages, summary, message, err := h.sync.SyncPages(c.Context(), GetAccount(c))
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{
		"success": true,
		"data": fiber.Map{
			"pages":   pages,
			"summary": summary,
		},
	}
	if message != "" {
		resp["message"] = message
	}
	return c.JSON(resp)
}

func (h *PageHandler) ToggleSelection(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid page id",
		})
	}

	page, err := h.s.ToggleSelection(c.Context(), id, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, page)
}

func (h *PageHandler) UpdateSelection(c *fiber.Ctx) error {
	var req transfer.SelectionUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}

	if err := h.s.UpdateSelection(c.Context(), GetUserID(c), req.SelectedIDs); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "Selection updated")
}

func (h *PageHandler) SelectAll(c *fiber.Ctx) error {
	if err := h.s.SelectAll(c.Context(), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "All pages selected")
}

func (h *PageHandler) DeselectAll(c *fiber.Ctx) error {
	if err := h.s.DeselectAll(c.Context(), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "All pages deselected")
}
