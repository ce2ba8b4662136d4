package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/pageflowhq/pageflow/configs"
	"github.com/pageflowhq/pageflow/internal/repository"
	"github.com/pageflowhq/pageflow/internal/service"
	"github.com/pageflowhq/pageflow/pkg/utils"
)

type AuthMiddleware struct {
	s   service.ApiKeyService
	a   repository.AccountRepository
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config, s service.ApiKeyService, a repository.AccountRepository) *AuthMiddleware {
	return &AuthMiddleware{s: s, a: a, cfg: cfg}
}

// AuthMiddleware authenticates by session cookie or api_key query parameter,
// loads the account and stores both on the request context. Requests from an
// account whose stored user token has lapsed are rejected with a distinct
// reason so clients can trigger a re-login.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(m.cfg.CookieName)
		apiKey := c.Query("api_key")

		if tokenString == "" && apiKey == "" {
			return unauthorized(c, "Missing keys or cookies")
		}

		var userID int64
		if apiKey != "" {
			id, err := m.s.GetUserID(c.Context(), apiKey)
			if err != nil {
				return unauthorized(c, err.Error())
			}
			userID = id
		} else {
			claims, err := utils.ValidateToken(m.cfg.SecretKey, tokenString)
			if err != nil {
				c.Cookie(&fiber.Cookie{
					Name:   m.cfg.CookieName,
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})

				slog.Info(fmt.Sprintf("token validation failed: %v", err))
				return unauthorized(c, "Invalid or expired token")
			}
			if _, err := fmt.Sscanf(claims.UserID, "%d", &userID); err != nil {
				return unauthorized(c, "Invalid or expired token")
			}
		}

		account, isExist, err := m.a.GetByID(c.Context(), userID)
		if err != nil {
			slog.Info(err.Error())
			return unauthorized(c, "Account lookup failed")
		}
		if !isExist {
			return unauthorized(c, "Account not found")
		}

		if account.HasExpiredToken(time.Now()) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Facebook token expired, please log in again",
				"code":    "TOKEN_EXPIRED",
			})
		}

		c.Locals("user_id", fmt.Sprintf("%d", userID))
		c.Locals("account", account)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
