package identity

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cetra-app/cetra/internal/session"
	"github.com/cetra-app/cetra/internal/validation"
)

// Messages returned to clients. Login failures share one message so responses
// do not reveal which emails are registered.
const (
	msgEmailTaken         = "An account with this email already exists"
	msgInvalidCredentials = "Invalid email or password"
	msgUserNotFound       = "User not found"
	msgLoggedOut          = "Logged out"
	msgInvalidBody        = "Invalid request body"
	msgTrialExhausted     = "Free trial runs exhausted"
)

// Handler exposes account endpoints.
type Handler struct {
	service  *Service
	sessions *session.Manager
}

// NewHandler constructs an account HTTP handler.
func NewHandler(service *Service, sessions *session.Manager) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Signup creates an account and signs it in.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req SignupInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, msgInvalidBody)
	}
	user, err := h.service.Signup(c.UserContext(), req)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			return fiber.NewError(http.StatusBadRequest, verr.Message)
		case errors.Is(err, ErrEmailTaken):
			return fiber.NewError(http.StatusConflict, msgEmailTaken)
		default:
			return err
		}
	}
	if err := h.sessions.Login(c, user.ID); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(user)
}

// Login verifies credentials and establishes a session.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, msgInvalidBody)
	}
	user, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			return fiber.NewError(http.StatusBadRequest, verr.Message)
		case errors.Is(err, ErrInvalidCredentials):
			return fiber.NewError(http.StatusUnauthorized, msgInvalidCredentials)
		default:
			return err
		}
	}
	if err := h.sessions.Login(c, user.ID); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(user)
}

// Logout destroys the session and its cookie.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": msgLoggedOut})
}

// Me returns the signed-in user. Requires the session middleware.
func (h *Handler) Me(c *fiber.Ctx) error {
	uid, _ := c.Locals(session.LocalsUserID).(string)
	user, err := h.service.Get(c.UserContext(), uid)
	if errors.Is(err, ErrUserNotFound) {
		return fiber.NewError(http.StatusUnauthorized, msgUserNotFound)
	}
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(user)
}

// UseTrialRun meters one builder run against the free-plan quota.
func (h *Handler) UseTrialRun(c *fiber.Ctx) error {
	uid, _ := c.Locals(session.LocalsUserID).(string)
	res, err := h.service.ConsumeTrialRun(c.UserContext(), uid)
	switch {
	case err == nil:
		return c.Status(http.StatusOK).JSON(res)
	case errors.Is(err, ErrUserNotFound):
		return fiber.NewError(http.StatusUnauthorized, msgUserNotFound)
	case errors.Is(err, ErrTrialExhausted):
		return c.Status(http.StatusForbidden).JSON(fiber.Map{
			"allowed":       false,
			"remainingRuns": 0,
			"message":       msgTrialExhausted,
		})
	default:
		return err
	}
}
