package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type fakePool struct{ acquired, idle, total int32 }

func (f fakePool) AcquiredConns() int32 { return f.acquired }
func (f fakePool) IdleConns() int32     { return f.idle }
func (f fakePool) TotalConns() int32    { return f.total }

func scrape(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/v1/books/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/books/7", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	UpdateDBPoolMetrics(fakePool{acquired: 2, idle: 3, total: 5})

	out := scrape(t, app)
	if !strings.Contains(out, `trailhead_http_requests_total{method="GET",path="/v1/books/:id",status="200"}`) {
		t.Error("route-pattern counter missing from /metrics output")
	}
	if !strings.Contains(out, "trailhead_db_pool_conns_open 5") {
		t.Error("pool gauge missing from /metrics output")
	}
}
