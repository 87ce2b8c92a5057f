package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses by endpoint, unless the handler
// already chose one.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		case strings.HasPrefix(path, "/v1/auth"),
			strings.HasPrefix(path, "/v1/me"),
			strings.HasPrefix(path, "/v1/cart"),
			strings.HasPrefix(path, "/v1/orders"):
			ttl = "private, no-store" // per-user state

		case strings.HasPrefix(path, "/v1/categories"):
			ttl = "public, max-age=3600"

		case strings.HasSuffix(path, "/nearby"):
			ttl = "public, max-age=300"

		case strings.HasPrefix(path, "/v1/books"):
			ttl = "public, max-age=600"

		case strings.HasPrefix(path, "/v1/"), strings.HasPrefix(path, "/api/"):
			ttl = "public, max-age=300"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}
		return err
	}
}
