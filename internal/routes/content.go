package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cetra-app/cetra/internal/blog"
	"github.com/cetra-app/cetra/internal/leads"
)

// RegisterContentRoutes wires the public blog and waitlist endpoints.
func RegisterContentRoutes(r fiber.Router, posts *blog.Handler, waitlist *leads.Handler, idempotency fiber.Handler) {
	r.Get("/blog", posts.List)
	r.Get("/blog/:slug", posts.Get)
	r.Post("/leads", idempotency, waitlist.Create)
}
