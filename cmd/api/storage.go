package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samirrijal/trailhead/internal/adapters/memory"
	"github.com/samirrijal/trailhead/internal/adapters/postgres"
	"github.com/samirrijal/trailhead/internal/core/ports"
	"github.com/samirrijal/trailhead/internal/pkg/config"
	"github.com/samirrijal/trailhead/internal/pkg/metrics"
)

// repositories is the storage backend selected by storage.driver.
type repositories struct {
	activities ports.ActivityRepository
	categories ports.CategoryRepository
	users      ports.UserRepository
	books      ports.BookRepository
	carts      ports.CartRepository
	orders     ports.OrderRepository

	db *postgres.DB // nil for the memory driver
}

func (r *repositories) close() {
	if r.db != nil {
		r.db.Close()
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.Storage.Driver != "postgres" {
		store := memory.NewSeeded()
		slog.Info("using in-memory store with seed data")
		return &repositories{
			activities: store.Activities(),
			categories: store.Categories(),
			users:      store.Users(),
			books:      store.Books(),
			carts:      store.Carts(),
			orders:     store.Orders(),
		}, nil
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	slog.Info("using postgres store", "host", cfg.Database.Host, "db", cfg.Database.DBName)

	return &repositories{
		activities: postgres.NewActivityRepo(db),
		categories: postgres.NewCategoryRepo(db),
		users:      postgres.NewUserRepo(db),
		books:      postgres.NewBookRepo(db),
		carts:      postgres.NewCartRepo(db),
		orders:     postgres.NewOrderRepo(db),
		db:         db,
	}, nil
}

// reportPoolStats refreshes the pool gauges until ctx is done.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		}
	}
}
