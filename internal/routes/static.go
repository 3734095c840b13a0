package routes

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

// RegisterStaticRoutes serves the built frontend from dir. Unknown paths
// outside /api get index.html so client-side routing can take over.
func RegisterStaticRoutes(app *fiber.App, dir string) {
	index := filepath.Join(dir, "index.html")
	app.Static("/", dir)
	app.Get("*", func(c *fiber.Ctx) error {
		if isAPIPath(c.Path()) {
			return fiber.ErrNotFound
		}
		return c.SendFile(index)
	})
}
