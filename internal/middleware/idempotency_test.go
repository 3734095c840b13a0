package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/cetra-app/cetra/internal/logging"
)

func setupIdempotencyApp(t *testing.T, cfg ...fiber.Config) (*fiber.App, *int, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	calls := 0
	app := fiber.New(cfg...)
	app.Post("/api/leads", Idempotency(cache, time.Minute, logging.Discard()), func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": calls})
	})
	return app, &calls, mr
}

func postLead(t *testing.T, app *fiber.App, key string) (int, string, string) {
	t.Helper()
	return postLeadFrom(t, app, key, "")
}

func postLeadFrom(t *testing.T, app *fiber.App, key, forwardedFor string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/api/leads", strings.NewReader(`{"email":"a@b.co"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	if forwardedFor != "" {
		req.Header.Set(fiber.HeaderXForwardedFor, forwardedFor)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode, string(body), resp.Header.Get(fiber.HeaderContentType)
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	app, calls, _ := setupIdempotencyApp(t)

	postLead(t, app, "")
	postLead(t, app, "")
	if *calls != 2 {
		t.Fatalf("expected handler to run twice, ran %d times", *calls)
	}
}

func TestIdempotencyReplaysFirstResponse(t *testing.T) {
	app, calls, _ := setupIdempotencyApp(t)

	status, body, _ := postLead(t, app, "form-123")
	if status != fiber.StatusCreated {
		t.Fatalf("expected %d got %d", fiber.StatusCreated, status)
	}

	status2, body2, contentType := postLead(t, app, "form-123")
	if status2 != fiber.StatusCreated || body2 != body {
		t.Fatalf("expected replay %d %s, got %d %s", status, body, status2, body2)
	}
	if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		t.Fatalf("expected json content type on replay, got %q", contentType)
	}
	if *calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", *calls)
	}

	postLead(t, app, "form-456")
	if *calls != 2 {
		t.Fatalf("a new key must reach the handler, calls=%d", *calls)
	}
}

func TestIdempotencyInProgressConflict(t *testing.T) {
	app, calls, mr := setupIdempotencyApp(t)

	if err := mr.Set(idempotencyPrefix+"0.0.0.0:POST:/api/leads:busy", inProgressMarker); err != nil {
		t.Fatalf("seed: %v", err)
	}
	status, _, _ := postLead(t, app, "busy")
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if *calls != 0 {
		t.Fatal("handler ran for an in-flight key")
	}
}

func TestIdempotencyKeysAreScopedPerCaller(t *testing.T) {
	app, calls, _ := setupIdempotencyApp(t, fiber.Config{
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0"},
	})

	_, first, _ := postLeadFrom(t, app, "shared-key", "203.0.113.1")
	_, second, _ := postLeadFrom(t, app, "shared-key", "203.0.113.2")
	if *calls != 2 || first == second {
		t.Fatalf("callers sharing a key must not see each other's response: calls=%d %s %s", *calls, first, second)
	}

	_, again, _ := postLeadFrom(t, app, "shared-key", "203.0.113.1")
	if again != first || *calls != 2 {
		t.Fatalf("expected replay for the same caller, got %s calls=%d", again, *calls)
	}
}
