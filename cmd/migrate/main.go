package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/samirrijal/trailhead/internal/adapters/memory"
	"github.com/samirrijal/trailhead/internal/adapters/postgres"
	"github.com/samirrijal/trailhead/internal/pkg/config"
	"github.com/samirrijal/trailhead/internal/pkg/logging"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|seed>")
	}

	cfg, err := config.Load("trailhead-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, "text")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		slog.Info("all migrations applied")
	case "seed":
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		if err := seed(ctx, db); err != nil {
			log.Fatalf("seed: %v", err)
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// seed loads the demo catalog. Categories and books are upserts; activities are only
// inserted into an empty table.
func seed(ctx context.Context, db *postgres.DB) error {
	categories := postgres.NewCategoryRepo(db)
	for _, c := range memory.SeedCategories() {
		if err := categories.Create(ctx, &c); err != nil {
			return err
		}
	}
	slog.Info("seeded categories", "count", len(memory.SeedCategories()))

	books := postgres.NewBookRepo(db)
	for _, b := range memory.SeedBooks() {
		if err := books.Create(ctx, &b); err != nil {
			return err
		}
	}
	slog.Info("seeded books", "count", len(memory.SeedBooks()))

	activities := postgres.NewActivityRepo(db)
	existing, err := activities.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("activities already present, skipping", "count", len(existing))
		return nil
	}
	seeded := memory.SeedActivities(time.Now())
	for _, a := range seeded {
		if err := activities.Create(ctx, &a); err != nil {
			return err
		}
	}
	slog.Info("seeded activities", "count", len(seeded))
	return nil
}
