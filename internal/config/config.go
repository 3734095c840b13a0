package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	// Seeds the environment from a local .env file when one exists.
	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAppName         = "Cetra"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultSessionCookie   = "cetra.sid"
	defaultSessionTTL      = 30 * 24 * time.Hour
	defaultDevSecret       = "cetra-dev-secret-change-me"
	defaultRateLimitMax    = 20
	defaultRateLimitWindow = 15 * time.Minute
	defaultBlogPath        = "data/blog.json"
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	sessionTTLEnvVar       = "SESSION_TTL"
	rateLimitMaxEnvVar     = "AUTH_RATE_LIMIT_MAX"
	rateLimitWindowEnvVar  = "AUTH_RATE_LIMIT_WINDOW"
	trustedProxiesEnvVar   = "TRUSTED_PROXIES"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName         string
	AppEnv          string
	Port            string
	LogLevel        string
	LogFormat       string
	DatabaseURL     string
	RedisURL        string
	SessionSecret   string
	SessionCookie   string
	SessionTTL      time.Duration
	RateLimitMax    int
	RateLimitWindow time.Duration
	BlogPath        string
	StaticDir       string
	ShutdownPeriod  time.Duration
	IdempotencyTTL  time.Duration
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is honored.
	TrustedProxies []string
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:         getEnv("APP_NAME", defaultAppName),
		AppEnv:          strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:            getEnv("PORT", defaultPort),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "json")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionCookie:   getEnv("SESSION_COOKIE_NAME", defaultSessionCookie),
		SessionTTL:      defaultSessionTTL,
		RateLimitMax:    defaultRateLimitMax,
		RateLimitWindow: defaultRateLimitWindow,
		BlogPath:        getEnv("BLOG_PATH", defaultBlogPath),
		StaticDir:       os.Getenv("STATIC_DIR"),
		ShutdownPeriod:  defaultShutdownDelay,
		IdempotencyTTL:  defaultIdempotencyTTL,
		TrustedProxies:  splitList(os.Getenv(trustedProxiesEnvVar)),
	}

	var err error
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if v := os.Getenv(sessionTTLEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", sessionTTLEnvVar, err)
		}
		cfg.SessionTTL = d
	}
	if v := os.Getenv(rateLimitMaxEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", rateLimitMaxEnvVar, v)
		}
		cfg.RateLimitMax = n
	}
	if v := os.Getenv(rateLimitWindowEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", rateLimitWindowEnvVar, err)
		}
		cfg.RateLimitWindow = d
	}

	if cfg.DatabaseURL == "" && !cfg.Dev() {
		return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
	}

	if cfg.SessionSecret == "" {
		if cfg.Production() {
			return Config{}, fmt.Errorf("SESSION_SECRET must be set in production")
		}
		cfg.SessionSecret = defaultDevSecret
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// Production reports whether cookies must be marked secure and proxies trusted.
func (c Config) Production() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// Dev reports whether the service may run without Postgres.
func (c Config) Dev() bool {
	switch c.AppEnv {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
