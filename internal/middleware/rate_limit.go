package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const (
	defaultAuthAttempts = 20
	defaultAuthWindow   = 15 * time.Minute
	rateLimitedMessage  = "Too many attempts. Please try again later."
)

// AuthRateLimit caps signup and login attempts per ClientIP in a fixed
// window. A nil storage keeps counters in process memory, which is only
// accurate for a single instance; pass shared storage to count across
// instances.
func AuthRateLimit(maxAttempts int, window time.Duration, storage fiber.Storage) fiber.Handler {
	if maxAttempts <= 0 {
		maxAttempts = defaultAuthAttempts
	}
	if window <= 0 {
		window = defaultAuthWindow
	}
	return limiter.New(limiter.Config{
		Max:        maxAttempts,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "auth:" + ClientIP(c)
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{"message": rateLimitedMessage})
		},
		Storage: storage,
	})
}
