//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	handler "github.com/samirrijal/trailhead/internal/adapters/http"
	"github.com/samirrijal/trailhead/internal/adapters/memory"
	"github.com/samirrijal/trailhead/internal/adapters/postgres"
	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/usecases"
	"github.com/samirrijal/trailhead/internal/pkg/config"
)

// setupTestDB connects to the database named by the TRAILHEAD_DATABASE_* settings and
// applies migrations.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("trailhead-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 5)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedBooks upserts the catalog books; ISBN is unique so reruns are harmless.
func seedBooks(t *testing.T, db *postgres.DB) []domain.Book {
	repo := postgres.NewBookRepo(db)
	books := memory.SeedBooks()
	for i := range books {
		if err := repo.Create(context.Background(), &books[i]); err != nil {
			t.Fatalf("seed book %s: %v", books[i].ISBN, err)
		}
	}
	return books
}

// setupTestDeps wires real postgres repositories, no cache or broker.
func setupTestDeps(db *postgres.DB) *handler.Dependencies {
	activities := postgres.NewActivityRepo(db)
	categories := postgres.NewCategoryRepo(db)
	books := postgres.NewBookRepo(db)
	carts := postgres.NewCartRepo(db)

	return &handler.Dependencies{
		Activities: usecases.NewActivityService(activities, nil, nil, usecases.ActivityOptions{}),
		Categories: usecases.NewCategoryService(categories),
		Auth: usecases.NewAuthService(postgres.NewUserRepo(db), categories, memory.NewRevocations(), usecases.AuthOptions{
			Secret:     []byte("integration-secret-integration-secret"),
			BcryptCost: bcrypt.MinCost,
		}),
		Books:           usecases.NewBookService(books),
		Carts:           usecases.NewCartService(carts, books),
		Orders:          usecases.NewOrderService(postgres.NewOrderRepo(db), carts, books, nil, nil),
		Recommendations: usecases.NewRecommendationService(activities, nil),
		Checks:          map[string]handler.Pinger{"database": db},
	}
}

func TestIntegration_Ready(t *testing.T) {
	db := setupTestDB(t)
	app := fiber.New()
	handler.SetupRoutes(app, setupTestDeps(db))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestIntegration_NearbyActivities(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := postgres.NewActivityRepo(db)
	a := memory.SeedActivities(time.Now())[1] // Alki, ~3.9 miles from downtown
	a.Title = fmt.Sprintf("Integration Kayak %d", time.Now().UnixNano())
	if err := repo.Create(ctx, &a); err != nil {
		t.Fatalf("create activity: %v", err)
	}

	app := fiber.New()
	handler.SetupRoutes(app, setupTestDeps(db))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/activities/nearby?latitude=47.6062&longitude=-122.3321&maxDistance=5&limit=500", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var results []domain.NearbyActivity
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatal(err)
	}

	found := false
	prev := -1.0
	for _, r := range results {
		if r.DistanceInMiles == nil {
			t.Fatalf("activity %d returned without a distance", r.ID)
		}
		if *r.DistanceInMiles < prev {
			t.Errorf("results not sorted: %.1f after %.1f", *r.DistanceInMiles, prev)
		}
		prev = *r.DistanceInMiles
		if r.ID == a.ID {
			found = true
			if *r.DistanceInMiles != 3.9 {
				t.Errorf("expected 3.9 miles, got %.1f", *r.DistanceInMiles)
			}
		}
	}
	if !found {
		t.Errorf("created activity %d missing from nearby results", a.ID)
	}
}

func TestIntegration_Checkout(t *testing.T) {
	db := setupTestDB(t)
	seedBooks(t, db)

	app := fiber.New()
	handler.SetupRoutes(app, setupTestDeps(db))

	token := register(t, app, fmt.Sprintf("it-%d", time.Now().UnixNano()))

	var book domain.Book
	resp := do(t, app, "GET", "/v1/books/category/science%20fiction", "", "")
	expectStatus(t, resp, 200)
	var books []domain.Book
	decode(t, resp, &books)
	if len(books) == 0 {
		t.Fatal("expected at least one science fiction book")
	}
	book = books[0]

	expectStatus(t, do(t, app, "POST", "/v1/cart/items", token, fmt.Sprintf(`{"bookId":%d,"quantity":2}`, book.ID)), 201)
	expectStatus(t, do(t, app, "POST", "/v1/cart/items", token, fmt.Sprintf(`{"bookId":%d}`, book.ID)), 201)

	resp = do(t, app, "POST", "/v1/orders", token, "")
	expectStatus(t, resp, 201)
	var receipt domain.OrderReceipt
	decode(t, resp, &receipt)

	price, err := domain.ParseCents(book.Price)
	if err != nil {
		t.Fatal(err)
	}
	if want := (price * 3).String(); receipt.Total != want {
		t.Errorf("expected total %s, got %s", want, receipt.Total)
	}
	if receipt.ItemCount != 1 {
		t.Errorf("expected one merged line, got %d", receipt.ItemCount)
	}

	resp = do(t, app, "GET", fmt.Sprintf("/v1/orders/%d", receipt.ID), token, "")
	expectStatus(t, resp, 200)
	var detail domain.OrderDetail
	decode(t, resp, &detail)
	if len(detail.Items) != 1 || detail.Items[0].Quantity != 3 || detail.Items[0].Price != book.Price {
		t.Errorf("unexpected order lines %+v", detail.Items)
	}
}
