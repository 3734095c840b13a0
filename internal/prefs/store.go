// Package prefs persists interface preferences: language, theme, tour
// completion flags and the last guide section. Storage failures never reach
// callers; values fall back to an in-memory copy instead.
package prefs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/cetra-app/cetra/internal/i18n"
)

// Storage keys shared with the web client.
const (
	KeyTheme            = "theme"
	KeyLanguage         = "cetra_language"
	KeyDashboardTour    = "dashboardTourCompleted"
	KeyBuilderTour      = "builderTourCompleted"
	KeyCardSettingsTour = "cardSettingsTourCompleted"
	KeyGuideLastSection = "cetra_guide_last_section"
	completedValue      = "true"
	DefaultGuideSection = "overview"
)

// Theme is the colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme applies when nothing is stored and no probe answers.
const DefaultTheme = ThemeDark

// GuideSections are the card settings guide sections in display order.
var GuideSections = []string{"overview", "advanced", "timing", "risk", "simulation"}

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrUnknownTheme        = errors.New("unknown theme")
	ErrUnknownSection      = errors.New("unknown guide section")
	ErrUnknownTour         = errors.New("unknown tour")
)

// Store reads and writes preferences through a Backend. Every write lands in
// an in-memory copy first, so reads keep working while the backend fails.
type Store struct {
	backend Backend
	logger  *slog.Logger

	mu       sync.RWMutex
	fallback map[string]string
}

// NewStore wraps backend. A nil backend keeps preferences in memory only.
func NewStore(backend Backend, logger *slog.Logger) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger, fallback: map[string]string{}}
}

// Get returns the raw value under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.backend.Get(ctx, key)
	if err == nil {
		return v, ok
	}
	s.logger.DebugContext(ctx, "preference read failed, using memory copy", slog.String("key", key), slog.Any("error", err))
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok = s.fallback[key]
	return v, ok
}

// Set stores value under key. Backend failures are logged and swallowed.
func (s *Store) Set(ctx context.Context, key, value string) {
	s.mu.Lock()
	s.fallback[key] = value
	s.mu.Unlock()
	if err := s.backend.Set(ctx, key, value); err != nil {
		s.logger.WarnContext(ctx, "preference write failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Delete removes key. Backend failures are logged and swallowed.
func (s *Store) Delete(ctx context.Context, key string) {
	s.mu.Lock()
	delete(s.fallback, key)
	s.mu.Unlock()
	if err := s.backend.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "preference delete failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Language returns the stored language when it is supported, else "en".
func (s *Store) Language(ctx context.Context) string {
	if v, ok := s.Get(ctx, KeyLanguage); ok && i18n.Supported(v) {
		return v
	}
	return i18n.Default
}

// SetLanguage stores lang if it is supported.
func (s *Store) SetLanguage(ctx context.Context, lang string) error {
	if !i18n.Supported(lang) {
		return ErrUnsupportedLanguage
	}
	s.Set(ctx, KeyLanguage, lang)
	return nil
}

// Theme returns the stored theme. When nothing valid is stored, probe is
// asked once for the system preference; a nil or silent probe yields dark.
func (s *Store) Theme(ctx context.Context, probe func() (Theme, bool)) Theme {
	if v, ok := s.Get(ctx, KeyTheme); ok {
		if t := Theme(v); t == ThemeLight || t == ThemeDark {
			return t
		}
	}
	if probe != nil {
		if t, ok := probe(); ok && (t == ThemeLight || t == ThemeDark) {
			return t
		}
	}
	return DefaultTheme
}

// SetTheme stores an explicit theme choice.
func (s *Store) SetTheme(ctx context.Context, t Theme) error {
	if t != ThemeLight && t != ThemeDark {
		return ErrUnknownTheme
	}
	s.Set(ctx, KeyTheme, string(t))
	return nil
}

// ToggleTheme flips between light and dark and stores the result.
func (s *Store) ToggleTheme(ctx context.Context, probe func() (Theme, bool)) Theme {
	next := ThemeDark
	if s.Theme(ctx, probe) == ThemeDark {
		next = ThemeLight
	}
	s.Set(ctx, KeyTheme, string(next))
	return next
}

// TourCompleted reports whether the flag under key is set. Any non-empty
// value counts.
func (s *Store) TourCompleted(ctx context.Context, key string) bool {
	v, ok := s.Get(ctx, key)
	return ok && v != ""
}

// SetTourCompleted marks the tour under key as done.
func (s *Store) SetTourCompleted(ctx context.Context, key string) {
	s.Set(ctx, key, completedValue)
}

// ClearTourCompleted removes the flag so the tour auto-starts again.
func (s *Store) ClearTourCompleted(ctx context.Context, key string) {
	s.Delete(ctx, key)
}

// GuideSection returns the last viewed guide section, or "overview" when the
// stored value names no known section.
func (s *Store) GuideSection(ctx context.Context) string {
	if v, ok := s.Get(ctx, KeyGuideLastSection); ok && knownSection(v) {
		return v
	}
	return DefaultGuideSection
}

// SetGuideSection records the section being viewed.
func (s *Store) SetGuideSection(ctx context.Context, section string) error {
	if !knownSection(section) {
		return ErrUnknownSection
	}
	s.Set(ctx, KeyGuideLastSection, section)
	return nil
}

func knownSection(id string) bool {
	for _, s := range GuideSections {
		if s == id {
			return true
		}
	}
	return false
}
