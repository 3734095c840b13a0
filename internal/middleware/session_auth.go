package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cetra-app/cetra/internal/session"
)

// RequireSession rejects requests without an authenticated session and
// exposes the user id to handlers through session.LocalsUserID.
func RequireSession(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := sessions.UserID(c)
		if errors.Is(err, session.ErrNoSession) {
			return fiber.NewError(http.StatusUnauthorized, "Not authenticated")
		}
		if err != nil {
			return err
		}
		c.Locals(session.LocalsUserID, uid)
		return c.Next()
	}
}
