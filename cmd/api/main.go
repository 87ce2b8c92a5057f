package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/trailhead/internal/adapters/http"
	"github.com/samirrijal/trailhead/internal/adapters/memory"
	natsadapter "github.com/samirrijal/trailhead/internal/adapters/nats"
	"github.com/samirrijal/trailhead/internal/adapters/openai"
	"github.com/samirrijal/trailhead/internal/adapters/temporal"
	"github.com/samirrijal/trailhead/internal/adapters/valkey"
	"github.com/samirrijal/trailhead/internal/core/ports"
	"github.com/samirrijal/trailhead/internal/core/usecases"
	"github.com/samirrijal/trailhead/internal/pkg/config"
	"github.com/samirrijal/trailhead/internal/pkg/logging"
	"github.com/samirrijal/trailhead/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("trailhead-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Storage
	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer repos.close()

	checks := map[string]http.Pinger{}
	if repos.db != nil {
		checks["database"] = repos.db
		go reportPoolStats(ctx, repos.db)
	}

	// Cache and session revocation
	var (
		cache   ports.CacheService = memory.NewCache()
		revoked ports.TokenRevoker = memory.NewRevocations()
	)
	if cfg.Valkey.Enabled {
		vc, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, using in-process cache", "error", err)
		} else {
			defer vc.Close()
			cache = vc
			revoked = valkey.NewRevocations(vc)
			checks["cache"] = vc
		}
	}

	// NATS
	var (
		events   ports.EventPublisher
		natsConn *nats.Conn
	)
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			events = pub
			checks["nats"] = pub
		}

		// Raw NATS connection for WebSocket relay
		natsConn, err = natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	// Temporal
	var fulfillment ports.FulfillmentStarter
	if cfg.Temporal.Enabled {
		tc, err := temporal.Dial(cfg.Temporal.HostPort, cfg.Temporal.Namespace)
		if err != nil {
			slog.Warn("temporal unavailable, orders stay pending", "error", err)
		} else {
			defer tc.Close()
			fulfillment = temporal.NewStarter(tc, cfg.Temporal.TaskQueue)
		}
	}

	// Recommender
	var recommender ports.Recommender
	if cfg.OpenAI.APIKey != "" {
		recommender = openai.New(openai.Options{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
			Timeout: time.Duration(cfg.OpenAI.Timeout) * time.Second,
		})
	} else {
		slog.Warn("openai.api_key not set, recommendations disabled")
	}

	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("generate jwt secret: %v", err)
		}
		slog.Warn("auth.jwt_secret not set, sessions will not survive a restart")
	}

	budgetMode, err := usecases.ParseBudgetMode(cfg.Discovery.BudgetMode, usecases.BudgetCeiling)
	if err != nil {
		log.Fatalf("discovery.budget_mode: %v", err)
	}

	// Use cases
	deps := &http.Dependencies{
		Activities: usecases.NewActivityService(repos.activities, cache, events, usecases.ActivityOptions{
			DefaultBudgetMode: budgetMode,
			MaxRadiusMiles:    cfg.Discovery.MaxRadiusMiles,
			CacheTTLSeconds:   cfg.Discovery.CacheTTL,
		}),
		Categories: usecases.NewCategoryService(repos.categories),
		Auth: usecases.NewAuthService(repos.users, repos.categories, revoked, usecases.AuthOptions{
			Secret: secret,
			TTL:    cfg.Auth.TTL(),
		}),
		Books:              usecases.NewBookService(repos.books),
		Carts:              usecases.NewCartService(repos.carts, repos.books),
		Orders:             usecases.NewOrderService(repos.orders, repos.carts, repos.books, events, fulfillment),
		Recommendations:    usecases.NewRecommendationService(repos.activities, recommender),
		NATS:               natsConn,
		Checks:             checks,
		DefaultRadiusMiles: cfg.Discovery.DefaultRadiusMiles,
		RequestTimeout:     time.Duration(cfg.Server.RequestTimeout) * time.Second,
		CookieSecure:       cfg.Auth.CookieSecure,
		OpenAPIPath:        cfg.Server.OpenAPIPath,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Trailhead API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Server.CORSOrigins, ", "),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: !containsWildcard(cfg.Server.CORSOrigins),
		ExposeHeaders:    "Link, X-Total-Count, Deprecation, Sunset",
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "storage", cfg.Storage.Driver)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// fiber's cors rejects credentials together with a wildcard origin.
func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}
