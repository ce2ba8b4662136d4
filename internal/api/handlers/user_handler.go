package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pageflowhq/pageflow/internal/service"
)

type UserHandler struct {
	s service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{s: s}
}

func (h *UserHandler) UserInfo(c *fiber.Ctx) error {
	account, err := h.s.GetAccountInfo(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, account)
}

func (h *UserHandler) RemoveUser(c *fiber.Ctx) error {
	if err := h.s.RemoveAccount(c.Context(), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, "Account removed")
}
