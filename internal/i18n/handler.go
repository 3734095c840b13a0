package i18n

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// LanguagesHandler lists the selectable languages.
func LanguagesHandler(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(Languages())
}
