package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pageflowhq/pageflow/internal/service"
)

type StatsHandler struct {
	s service.StatsService
}

func NewStatsHandler(s service.StatsService) *StatsHandler {
	return &StatsHandler{s: s}
}

func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	summary, err := h.s.GetStats(c.Context(), GetAccount(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, summary)
}

func (h *StatsHandler) QuickStats(c *fiber.Ctx) error {
	stats, err := h.s.GetQuickStats(c.Context(), GetAccount(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, stats)
}
