package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/trailhead/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	t := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, deps.requestTimeout())
	}
	auth := RequireAuth(deps)

	v1 := app.Group("/v1")

	// Activities; /nearby must precede /:id
	v1.Get("/activities", t(ListActivitiesHandler(deps)))
	v1.Get("/activities/nearby", t(NearbyActivitiesHandler(deps)))
	v1.Get("/activities/category/:category", t(ActivitiesByCategoryHandler(deps)))
	v1.Get("/activities/budget/:level", t(ActivitiesByBudgetHandler(deps)))
	v1.Get("/activities/:id", t(GetActivityHandler(deps)))
	v1.Post("/activities", auth, t(CreateActivityHandler(deps)))

	v1.Get("/categories", t(ListCategoriesHandler(deps)))
	v1.Get("/categories/:id", t(GetCategoryHandler(deps)))

	v1.Post("/recommendations", t(RecommendationsHandler(deps)))

	// Accounts
	v1.Post("/auth/register", t(RegisterHandler(deps)))
	v1.Post("/auth/login", t(LoginHandler(deps)))
	v1.Post("/auth/logout", auth, t(LogoutHandler(deps)))
	v1.Get("/auth/me", auth, t(MeHandler(deps)))
	v1.Put("/me/location", auth, t(UpdateLocationHandler(deps)))
	v1.Get("/me/preferences", auth, t(ListPreferencesHandler(deps)))
	v1.Post("/me/preferences", auth, t(AddPreferenceHandler(deps)))

	// Bookstore
	v1.Get("/books", t(ListBooksHandler(deps)))
	v1.Get("/books/category/:category", t(BooksByCategoryHandler(deps)))
	v1.Get("/books/:id", t(GetBookHandler(deps)))

	v1.Get("/cart", auth, t(GetCartHandler(deps)))
	v1.Delete("/cart", auth, t(ClearCartHandler(deps)))
	v1.Post("/cart/items", auth, t(AddCartItemHandler(deps)))
	v1.Put("/cart/items/:id", auth, t(UpdateCartItemHandler(deps)))
	v1.Delete("/cart/items/:id", auth, t(RemoveCartItemHandler(deps)))

	v1.Post("/orders", auth, t(CheckoutHandler(deps)))
	v1.Get("/orders", auth, t(ListOrdersHandler(deps)))
	v1.Get("/orders/:id", auth, t(GetOrderHandler(deps)))
	v1.Patch("/orders/:id/status", auth, t(UpdateOrderStatusHandler(deps)))

	// Legacy event API, kept for existing clients
	legacy := app.Group("/api/events", DeprecationMiddleware(legacyEventRoutes()))
	legacy.Get("/", t(ListActivitiesHandler(deps)))
	legacy.Get("/nearby", t(NearbyActivitiesHandler(deps)))
	legacy.Get("/category/:category", t(ActivitiesByCategoryHandler(deps)))
	legacy.Get("/budget/:level", t(ActivitiesByBudgetHandler(deps)))
	legacy.Get("/:id", t(GetActivityHandler(deps)))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app, deps.OpenAPIPath)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if deps.NATS == nil {
			return errUnavailable(c, "live feed is not configured")
		}
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	if deps.NATS != nil {
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
