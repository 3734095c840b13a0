package config

import (
	"testing"
	"time"
)

func TestLoadDevelopmentDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionTTL != 30*24*time.Hour {
		t.Fatalf("expected 30 day session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.RateLimitMax != 20 || cfg.RateLimitWindow != 15*time.Minute {
		t.Fatalf("unexpected rate limit %d/%s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.SessionSecret == "" {
		t.Fatal("expected development session secret fallback")
	}
	if cfg.Production() {
		t.Fatal("development config reported production")
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}

func TestLoadProductionRequiresDatabaseAndSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected missing DATABASE_URL error")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/cetra")
	t.Setenv("SESSION_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected missing SESSION_SECRET error")
	}

	t.Setenv("SESSION_SECRET", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Production() {
		t.Fatal("expected production config")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_RATE_LIMIT_MAX", "5")
	t.Setenv("AUTH_RATE_LIMIT_WINDOW", "1m")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("PORT", ":9000")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, ,10.1.0.0/16 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RateLimitMax != 5 || cfg.RateLimitWindow != time.Minute {
		t.Fatalf("overrides not applied: %d/%s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.ShutdownPeriod != 3*time.Second {
		t.Fatalf("expected 3s shutdown, got %s", cfg.ShutdownPeriod)
	}
	if cfg.Address() != ":9000" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[0] != "10.0.0.1" || cfg.TrustedProxies[1] != "10.1.0.0/16" {
		t.Fatalf("unexpected trusted proxies %q", cfg.TrustedProxies)
	}

	t.Setenv("AUTH_RATE_LIMIT_MAX", "zero")
	if _, err := Load(); err == nil {
		t.Fatal("expected invalid rate limit error")
	}
}
