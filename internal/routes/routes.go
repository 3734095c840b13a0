package routes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/cetra-app/cetra/internal/blog"
	"github.com/cetra-app/cetra/internal/config"
	"github.com/cetra-app/cetra/internal/identity"
	"github.com/cetra-app/cetra/internal/infra"
	"github.com/cetra-app/cetra/internal/leads"
	"github.com/cetra-app/cetra/internal/middleware"
	"github.com/cetra-app/cetra/internal/notification"
	"github.com/cetra-app/cetra/internal/prefs"
	"github.com/cetra-app/cetra/internal/session"
)

const rateLimitPrefix = "cetra:ratelimit:"

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	// HashCost overrides the bcrypt cost. Zero keeps identity.DefaultHashCost.
	HashCost int
}

// Setup configures middlewares and all application routes. The returned
// cleanup stops background work started for the routes.
func Setup(app *fiber.App, d Deps) (func(), error) {
	if !d.Cfg.Dev() && d.DB == nil {
		return nil, fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	cookieKey, err := session.CookieKey(d.Cfg.SessionSecret)
	if err != nil {
		return nil, err
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	app.Use(encryptcookie.New(encryptcookie.Config{Key: cookieKey}))

	RegisterHealthRoutes(app, d)

	cleanup := func() {}
	var sessionStorage fiber.Storage
	if d.DB != nil {
		pgStorage, err := session.NewPostgresStorage(context.Background(), d.DB, d.Logger, 0)
		if err != nil {
			return nil, err
		}
		sessionStorage = pgStorage
		cleanup = func() { _ = pgStorage.Close() }
	}
	sessions := session.NewManager(session.Config{
		CookieName: d.Cfg.SessionCookie,
		TTL:        d.Cfg.SessionTTL,
		Secure:     d.Cfg.Production(),
		Storage:    sessionStorage,
	})

	var limiterStorage fiber.Storage
	if d.Cache != nil {
		limiterStorage = infra.NewRedisStorage(d.Cache, rateLimitPrefix)
	}
	authLimiter := middleware.AuthRateLimit(d.Cfg.RateLimitMax, d.Cfg.RateLimitWindow, limiterStorage)

	notifier := notification.NewLoggerNotifier(d.Logger)

	var identityRepo identity.Repository
	var leadRepo leads.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
		leadRepo = leads.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
		leadRepo = leads.NewMemoryRepository()
	}
	opts := []identity.Option{identity.WithNotifier(notifier)}
	if d.HashCost > 0 {
		opts = append(opts, identity.WithHashCost(d.HashCost))
	}
	identityHandler := identity.NewHandler(identity.NewService(identityRepo, opts...), sessions)
	blogHandler := blog.NewHandler(blog.NewFileCatalog(d.Cfg.BlogPath))
	leadHandler := leads.NewHandler(leads.NewService(leadRepo, notifier))

	var profiles prefs.Profiles = prefs.NewMemoryProfiles()
	if d.Cache != nil {
		profiles = prefs.NewRedisProfiles(d.Cache)
	}
	prefsHandler := prefs.NewHandler(profiles, d.Logger, func(c *fiber.Ctx) string {
		uid, _ := c.Locals(session.LocalsUserID).(string)
		return uid
	})

	requireSession := middleware.RequireSession(sessions)
	api := app.Group("/api")
	RegisterAccountRoutes(api, identityHandler, requireSession, authLimiter)
	RegisterShellRoutes(api, prefsHandler, requireSession)
	RegisterContentRoutes(api, blogHandler, leadHandler, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))

	if d.Cfg.StaticDir != "" {
		RegisterStaticRoutes(app, d.Cfg.StaticDir)
	}

	return cleanup, nil
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
