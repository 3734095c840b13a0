package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cetra-app/cetra/internal/identity"
)

// RegisterAccountRoutes wires signup, login, logout and the session-guarded
// account endpoints. rateLimiter applies to signup and login only.
func RegisterAccountRoutes(r fiber.Router, h *identity.Handler, requireSession, rateLimiter fiber.Handler) {
	if rateLimiter != nil {
		r.Post("/signup", rateLimiter, h.Signup)
		r.Post("/login", rateLimiter, h.Login)
	} else {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
	}
	r.Post("/logout", h.Logout)

	r.Get("/me", requireSession, h.Me)
	r.Post("/use-trial-run", requireSession, h.UseTrialRun)
}
