package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// HealthHandler returns a basic liveness check.
func HealthHandler(_ *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": Version,
		})
	}
}

// ReadyHandler pings every configured backend.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string, len(deps.Checks)+1)
		allOK := true
		for name, p := range deps.Checks {
			if err := p.Ping(ctx); err != nil {
				checks[name] = "error: " + err.Error()
				allOK = false
				continue
			}
			checks[name] = "ok"
		}
		if deps.NATS == nil {
			checks["websocket"] = "not configured"
		}

		status := "ready"
		code := fiber.StatusOK
		if !allOK {
			status = "not ready"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
