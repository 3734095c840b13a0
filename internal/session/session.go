// Package session keeps authenticated state as a server-side record keyed by
// an opaque cookie. The record holds only the user id.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

const (
	// LocalsUserID is the fiber.Ctx locals key carrying the authenticated user id.
	LocalsUserID = "user_id"
	userIDKey    = "uid"
)

// ErrNoSession is returned when the request carries no authenticated session.
var ErrNoSession = errors.New("not authenticated")

// Config controls cookie attributes and the backing store.
type Config struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	// Storage persists session records. Nil selects Fiber's in-memory storage.
	Storage fiber.Storage
}

// Manager issues, reads and destroys sessions.
type Manager struct {
	store *fibersession.Store
}

// NewManager builds a session manager. Cookies are httpOnly and SameSite=Lax.
func NewManager(cfg Config) *Manager {
	store := fibersession.New(fibersession.Config{
		Expiration:     cfg.TTL,
		Storage:        cfg.Storage,
		KeyLookup:      "cookie:" + cfg.CookieName,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Secure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
	return &Manager{store: store}
}

// Login binds userID to a freshly generated session id and sets the cookie.
func (m *Manager) Login(c *fiber.Ctx, userID string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("regenerate session: %w", err)
	}
	sess.Set(userIDKey, userID)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// UserID returns the user bound to the request's session, or ErrNoSession.
func (m *Manager) UserID(c *fiber.Ctx) (string, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	userID, _ := sess.Get(userIDKey).(string)
	if userID == "" {
		return "", ErrNoSession
	}
	return userID, nil
}

// Logout deletes the server-side record and expires the cookie.
func (m *Manager) Logout(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
