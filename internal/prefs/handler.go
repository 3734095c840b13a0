package prefs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/cetra-app/cetra/internal/i18n"
)

// Profiles hands out the backend for one user's preferences.
type Profiles interface {
	Backend(userID string) Backend
}

// RedisProfiles keeps each user's preferences in its own Redis hash.
type RedisProfiles struct {
	client *redis.Client
}

func NewRedisProfiles(client *redis.Client) *RedisProfiles {
	return &RedisProfiles{client: client}
}

func (p *RedisProfiles) Backend(userID string) Backend {
	return NewRedisBackend(p.client, userID)
}

// MemoryProfiles keeps preferences per user in process memory.
type MemoryProfiles struct {
	mu       sync.Mutex
	backends map[string]*MemoryBackend
}

func NewMemoryProfiles() *MemoryProfiles {
	return &MemoryProfiles{backends: map[string]*MemoryBackend{}}
}

func (p *MemoryProfiles) Backend(userID string) Backend {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.backends[userID]
	if !ok {
		b = NewMemoryBackend()
		p.backends[userID] = b
	}
	return b
}

// View is the preference document exchanged with the web client.
type View struct {
	Language       string          `json:"language"`
	Theme          Theme           `json:"theme"`
	GuideSection   string          `json:"guideSection"`
	CompletedTours map[string]bool `json:"completedTours"`
}

// Update is a partial change. Nil fields are left alone.
type Update struct {
	Language       *string         `json:"language"`
	Theme          *Theme          `json:"theme"`
	GuideSection   *string         `json:"guideSection"`
	CompletedTours map[string]bool `json:"completedTours"`
}

// TourKeys are the completion flags a client may read and write.
var TourKeys = []string{KeyDashboardTour, KeyBuilderTour, KeyCardSettingsTour}

// Handler syncs a signed-in user's preferences across devices.
type Handler struct {
	profiles Profiles
	logger   *slog.Logger
	userID   func(c *fiber.Ctx) string
}

// NewHandler builds a preference handler. userID extracts the signed-in user.
func NewHandler(profiles Profiles, logger *slog.Logger, userID func(c *fiber.Ctx) string) *Handler {
	return &Handler{profiles: profiles, logger: logger, userID: userID}
}

func (h *Handler) store(c *fiber.Ctx) *Store {
	return NewStore(h.profiles.Backend(h.userID(c)), h.logger)
}

// Get returns the stored preferences with defaults applied.
func (h *Handler) Get(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(snapshot(c.UserContext(), h.store(c)))
}

// Put applies a partial update and returns the result. An update with any
// invalid field is rejected without writing anything.
func (h *Handler) Put(c *fiber.Ctx) error {
	var req Update
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(http.StatusBadRequest, updateErrorMessage(err))
	}

	ctx := c.UserContext()
	s := h.store(c)
	if req.Language != nil {
		s.Set(ctx, KeyLanguage, *req.Language)
	}
	if req.Theme != nil {
		s.Set(ctx, KeyTheme, string(*req.Theme))
	}
	if req.GuideSection != nil {
		s.Set(ctx, KeyGuideLastSection, *req.GuideSection)
	}
	for _, key := range TourKeys {
		done, ok := req.CompletedTours[key]
		switch {
		case !ok:
		case done:
			s.SetTourCompleted(ctx, key)
		default:
			s.ClearTourCompleted(ctx, key)
		}
	}
	return c.Status(http.StatusOK).JSON(snapshot(ctx, s))
}

// Validate checks every field of u before anything is stored.
func (u Update) Validate() error {
	if u.Language != nil && !i18n.Supported(*u.Language) {
		return ErrUnsupportedLanguage
	}
	if u.Theme != nil && *u.Theme != ThemeLight && *u.Theme != ThemeDark {
		return ErrUnknownTheme
	}
	if u.GuideSection != nil && !knownSection(*u.GuideSection) {
		return ErrUnknownSection
	}
	for key := range u.CompletedTours {
		if !knownTourKey(key) {
			return ErrUnknownTour
		}
	}
	return nil
}

func updateErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedLanguage):
		return "Unsupported language"
	case errors.Is(err, ErrUnknownTheme):
		return "Unknown theme"
	case errors.Is(err, ErrUnknownSection):
		return "Unknown guide section"
	default:
		return "Unknown tour"
	}
}

func snapshot(ctx context.Context, s *Store) View {
	tours := make(map[string]bool, len(TourKeys))
	for _, key := range TourKeys {
		tours[key] = s.TourCompleted(ctx, key)
	}
	return View{
		Language:       s.Language(ctx),
		Theme:          s.Theme(ctx, nil),
		GuideSection:   s.GuideSection(ctx),
		CompletedTours: tours,
	}
}

func knownTourKey(key string) bool {
	for _, k := range TourKeys {
		if k == key {
			return true
		}
	}
	return false
}
