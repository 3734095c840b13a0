package leads

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cetra-app/cetra/internal/validation"
)

// Handler exposes the waitlist endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a lead handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create stores a lead. Validation failures name the offending field.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req CreateInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	lead, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return c.Status(http.StatusBadRequest).JSON(verr)
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(lead)
}
