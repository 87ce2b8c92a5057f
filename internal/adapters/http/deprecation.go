package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DeprecatedRoute marks an endpoint as deprecated with sunset date.
type DeprecatedRoute struct {
	Path        string    // Route pattern, ":name" segments match any value
	SunsetDate  time.Time // Date when endpoint will be removed
	Alternative string    // Recommended alternative endpoint (optional)
}

// legacyEventRoutes are the pre-v1 /api/events endpoints kept for existing clients.
func legacyEventRoutes() []DeprecatedRoute {
	sunset := time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)
	return []DeprecatedRoute{
		{Path: "/api/events", SunsetDate: sunset, Alternative: "/v1/activities"},
		{Path: "/api/events/nearby", SunsetDate: sunset, Alternative: "/v1/activities/nearby"},
		{Path: "/api/events/category/:category", SunsetDate: sunset, Alternative: "/v1/activities/category/:category"},
		{Path: "/api/events/budget/:level", SunsetDate: sunset, Alternative: "/v1/activities/budget/:level"},
		{Path: "/api/events/:id", SunsetDate: sunset, Alternative: "/v1/activities/:id"},
	}
}

// DeprecationMiddleware adds Deprecation, Sunset, and Link headers to deprecated endpoints.
func DeprecationMiddleware(deprecated []DeprecatedRoute) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, d := range deprecated {
			if !matchPattern(c.Path(), d.Path) {
				continue
			}
			// RFC 8594
			c.Set("Deprecation", "true")
			c.Set("Sunset", d.SunsetDate.UTC().Format(time.RFC1123))
			if d.Alternative != "" {
				c.Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, d.Alternative))
			}
			days := time.Until(d.SunsetDate).Hours() / 24
			c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))
			break
		}
		return c.Next()
	}
}

// matchPattern compares path segments, letting ":param" segments match anything.
// "/api/events/:id" matches "/api/events/7".
func matchPattern(path, pattern string) bool {
	if path == pattern {
		return true
	}
	ps := strings.Split(strings.Trim(path, "/"), "/")
	qs := strings.Split(strings.Trim(pattern, "/"), "/")
	if len(ps) != len(qs) {
		return false
	}
	for i := range qs {
		if strings.HasPrefix(qs[i], ":") {
			if ps[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != qs[i] {
			return false
		}
	}
	return true
}
