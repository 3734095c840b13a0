package blog

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the blog JSON API.
type Handler struct {
	catalog *FileCatalog
}

// NewHandler constructs a blog handler.
func NewHandler(catalog *FileCatalog) *Handler {
	return &Handler{catalog: catalog}
}

// List returns every article without its content.
func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.catalog.List()
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(list)
}

// Get returns one article by slug.
func (h *Handler) Get(c *fiber.Ctx) error {
	article, err := h.catalog.Get(c.Params("slug"))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(http.StatusNotFound, "Article not found")
	}
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(article)
}
