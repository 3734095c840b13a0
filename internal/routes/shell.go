package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cetra-app/cetra/internal/i18n"
	"github.com/cetra-app/cetra/internal/prefs"
	"github.com/cetra-app/cetra/internal/tour"
)

// RegisterShellRoutes wires the dashboard shell endpoints: tour definitions,
// languages and per-user preferences.
func RegisterShellRoutes(r fiber.Router, preferences *prefs.Handler, requireSession fiber.Handler) {
	r.Get("/tours", tour.Catalog)
	r.Get("/languages", i18n.LanguagesHandler)
	r.Get("/preferences", requireSession, preferences.Get)
	r.Put("/preferences", requireSession, preferences.Put)
}
