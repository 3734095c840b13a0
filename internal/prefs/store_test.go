package prefs

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/cetra-app/cetra/internal/logging"
)

type brokenBackend struct{}

var errStorageDisabled = errors.New("storage disabled")

func (brokenBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errStorageDisabled
}
func (brokenBackend) Set(context.Context, string, string) error { return errStorageDisabled }
func (brokenBackend) Delete(context.Context, string) error      { return errStorageDisabled }

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil, logging.Discard())

	if got := s.Language(ctx); got != "en" {
		t.Fatalf("language default %q", got)
	}
	if got := s.Theme(ctx, nil); got != ThemeDark {
		t.Fatalf("theme default %q", got)
	}
	if s.TourCompleted(ctx, KeyDashboardTour) {
		t.Fatal("tour should not start completed")
	}
	if got := s.GuideSection(ctx); got != "overview" {
		t.Fatalf("guide default %q", got)
	}
}

func TestThemeProbeOnlyWhenUnset(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil, logging.Discard())
	probes := 0
	lightSystem := func() (Theme, bool) {
		probes++
		return ThemeLight, true
	}

	if got := s.Theme(ctx, lightSystem); got != ThemeLight {
		t.Fatalf("expected probe result, got %q", got)
	}
	if err := s.SetTheme(ctx, ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if got := s.Theme(ctx, lightSystem); got != ThemeDark {
		t.Fatalf("stored choice must win over probe, got %q", got)
	}
	if probes != 1 {
		t.Fatalf("probe consulted %d times", probes)
	}

	if got := s.ToggleTheme(ctx, nil); got != ThemeLight {
		t.Fatalf("toggle from dark gave %q", got)
	}
	if err := s.SetTheme(ctx, Theme("sepia")); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
}

func TestStoredValuesAreValidated(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	_ = backend.Set(ctx, KeyLanguage, "de")
	_ = backend.Set(ctx, KeyTheme, "blue")
	_ = backend.Set(ctx, KeyGuideLastSection, "nowhere")
	s := NewStore(backend, logging.Discard())

	if got := s.Language(ctx); got != "en" {
		t.Fatalf("unsupported stored language leaked: %q", got)
	}
	if got := s.Theme(ctx, nil); got != ThemeDark {
		t.Fatalf("invalid stored theme leaked: %q", got)
	}
	if got := s.GuideSection(ctx); got != "overview" {
		t.Fatalf("unknown section leaked: %q", got)
	}

	if err := s.SetLanguage(ctx, "de"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
	if err := s.SetLanguage(ctx, "kr"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	if got := s.Language(ctx); got != "kr" {
		t.Fatalf("expected kr, got %q", got)
	}
	if err := s.SetGuideSection(ctx, "timing"); err != nil {
		t.Fatalf("set section: %v", err)
	}
	if got := s.GuideSection(ctx); got != "timing" {
		t.Fatalf("expected timing, got %q", got)
	}
}

func TestFailingBackendFallsBackToMemory(t *testing.T) {
	ctx := context.Background()
	s := NewStore(brokenBackend{}, logging.Discard())

	if got := s.Language(ctx); got != "en" {
		t.Fatalf("expected default on failing read, got %q", got)
	}
	if err := s.SetLanguage(ctx, "fr"); err != nil {
		t.Fatalf("write errors must be swallowed: %v", err)
	}
	if got := s.Language(ctx); got != "fr" {
		t.Fatalf("expected memory copy, got %q", got)
	}

	s.SetTourCompleted(ctx, KeyBuilderTour)
	if !s.TourCompleted(ctx, KeyBuilderTour) {
		t.Fatal("completion flag lost")
	}
	s.ClearTourCompleted(ctx, KeyBuilderTour)
	if s.TourCompleted(ctx, KeyBuilderTour) {
		t.Fatal("cleared flag still set")
	}
}

func TestRedisBackendSharesProfile(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	laptop := NewStore(NewRedisBackend(client, "user-1"), logging.Discard())
	phone := NewStore(NewRedisBackend(client, "user-1"), logging.Discard())
	other := NewStore(NewRedisBackend(client, "user-2"), logging.Discard())

	laptop.SetTourCompleted(ctx, KeyCardSettingsTour)
	if !phone.TourCompleted(ctx, KeyCardSettingsTour) {
		t.Fatal("flag not visible from second device")
	}
	if other.TourCompleted(ctx, KeyCardSettingsTour) {
		t.Fatal("profiles must not share flags")
	}
	if got := mr.HGet("cetra:prefs:user-1", KeyCardSettingsTour); got != "true" {
		t.Fatalf("unexpected stored value %q", got)
	}

	phone.ClearTourCompleted(ctx, KeyCardSettingsTour)
	if laptop.TourCompleted(ctx, KeyCardSettingsTour) {
		t.Fatal("clear not visible from first device")
	}
}
