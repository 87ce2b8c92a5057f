package http

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/trailhead/internal/core/usecases"
)

// Pinger is a backend the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Activities      *usecases.ActivityService
	Categories      *usecases.CategoryService
	Auth            *usecases.AuthService
	Books           *usecases.BookService
	Carts           *usecases.CartService
	Orders          *usecases.OrderService
	Recommendations *usecases.RecommendationService

	// NATS feeds the WebSocket relay; nil disables /ws.
	NATS *nats.Conn
	// Checks are reported by /v1/ready, keyed by backend name.
	Checks map[string]Pinger

	DefaultRadiusMiles float64
	RequestTimeout     time.Duration
	CookieSecure       bool
	// OpenAPIPath overrides DefaultOpenAPIPath for /docs/openapi.yaml.
	OpenAPIPath string
}

func (d *Dependencies) requestTimeout() time.Duration {
	if d.RequestTimeout <= 0 {
		return 15 * time.Second
	}
	return d.RequestTimeout
}

func (d *Dependencies) defaultRadius() float64 {
	if d.DefaultRadiusMiles <= 0 {
		return 25
	}
	return d.DefaultRadiusMiles
}
