package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pageflowhq/pageflow/internal/graph"
	"github.com/pageflowhq/pageflow/internal/models"
	"github.com/pageflowhq/pageflow/internal/service"
)

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := strconv.Atoi(c.Locals("user_id").(string))
	return int64(userID)
}

// GetAccount returns the account loaded by the auth middleware.
func GetAccount(c *fiber.Ctx) *models.Account {
	account, _ := c.Locals("account").(*models.Account)
	return account
}

// selectedPages resolves the pages an aggregation call should cover: all
// selected pages, or just one when the page_id query parameter is set. An
// unknown or foreign page_id fails with ErrNotFound.
func selectedPages(c *fiber.Ctx, p service.PageService) ([]*models.Page, error) {
	pages, err := p.ListSelectedPages(c.Context(), GetUserID(c))
	if err != nil {
		return nil, err
	}

	pageID := c.Query("page_id")
	if pageID == "" {
		return pages, nil
	}
	for _, page := range pages {
		if page.PlatformPageID == pageID {
			return []*models.Page{page}, nil
		}
	}
	return nil, fmt.Errorf("%w: page not found", service.ErrNotFound)
}

func respondData(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func respondMessage(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// respondError maps the service error taxonomy onto HTTP statuses. Platform
// errors pass their message through verbatim so the caller sees what the
// platform said.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredential), errors.Is(err, service.ErrExpiredCredential):
		status = fiber.StatusUnauthorized
	default:
		var graphErr *graph.Error
		if errors.As(err, &graphErr) {
			status = fiber.StatusBadGateway
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
