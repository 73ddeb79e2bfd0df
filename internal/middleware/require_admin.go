package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sekolah-backend/internal/repository"
)

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "Auth-Token"

// RequireAdmin resolves the request token to an active session and stores
// the owning email in Locals. Missing and invalid tokens both reject with
// 401, with distinct messages. Any active session passes; per-email
// authorization happens at login time only.
func RequireAdmin(sessions *repository.SessionRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(TokenHeader)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing auth token")
		}

		email, err := sessions.ResolveActive(c.Context(), token)
		if errors.Is(err, repository.ErrNoSession) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}
		if err != nil {
			return err
		}

		c.Locals("admin_email", email)
		return c.Next()
	}
}

// AdminEmail returns the email set by RequireAdmin, or "".
func AdminEmail(c *fiber.Ctx) string {
	email, _ := c.Locals("admin_email").(string)
	return email
}
