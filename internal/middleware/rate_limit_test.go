package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/cetra-app/cetra/internal/infra"
)

func limitedApp(storage fiber.Storage, max int, cfg ...fiber.Config) *fiber.App {
	app := fiber.New(cfg...)
	app.Post("/api/login", AuthRateLimit(max, time.Minute, storage), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusUnauthorized)
	})
	return app
}

func attempt(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	return attemptFrom(t, app, "")
}

func attemptFrom(t *testing.T, app *fiber.App, forwardedFor string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/api/login", nil)
	if forwardedFor != "" {
		req.Header.Set(fiber.HeaderXForwardedFor, forwardedFor)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestAuthRateLimitBlocksAfterMax(t *testing.T) {
	app := limitedApp(nil, 3)

	for i := 0; i < 3; i++ {
		if resp := attempt(t, app); resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected handler status, got %d", i+1, resp.StatusCode)
		}
	}

	resp := attempt(t, app)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != rateLimitedMessage {
		t.Fatalf("unexpected message %q", body["message"])
	}
}

func TestAuthRateLimitSharedAcrossInstances(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	storage := infra.NewRedisStorage(client, "test:ratelimit:")
	first := limitedApp(storage, 2)
	second := limitedApp(storage, 2)

	attempt(t, first)
	attempt(t, second)
	if resp := attempt(t, first); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected counters shared through redis, got %d", resp.StatusCode)
	}
}

func TestAuthRateLimitDefaults(t *testing.T) {
	app := limitedApp(nil, 0)
	for i := 0; i < defaultAuthAttempts; i++ {
		attempt(t, app)
	}
	if resp := attempt(t, app); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected default cap of %d, got %d", defaultAuthAttempts, resp.StatusCode)
	}
}

func TestAuthRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	app := limitedApp(nil, 3, fiber.Config{
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		EnableIPValidation:      true,
	})

	limited := 0
	for i := 0; i < 10; i++ {
		resp := attemptFrom(t, app, fmt.Sprintf("198.51.100.%d", i+1))
		if resp.StatusCode == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited != 7 {
		t.Fatalf("rotating X-Forwarded-For must not reset the counter, limited=%d", limited)
	}
}

func TestAuthRateLimitKeysOnNearestTrustedHop(t *testing.T) {
	// app.Test connections come from 0.0.0.0.
	app := limitedApp(nil, 2, fiber.Config{
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0"},
		EnableIPValidation:      true,
	})

	attemptFrom(t, app, "10.9.9.1, 203.0.113.7")
	attemptFrom(t, app, "10.9.9.2, 203.0.113.7")
	if resp := attemptFrom(t, app, "10.9.9.3, 203.0.113.7"); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("spoofed left-most hops must not split the counter, got %d", resp.StatusCode)
	}
	if resp := attemptFrom(t, app, "203.0.113.8"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("a different caller behind the proxy has its own counter, got %d", resp.StatusCode)
	}
}
