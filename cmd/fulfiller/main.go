package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/trailhead/internal/adapters/nats"
	"github.com/samirrijal/trailhead/internal/adapters/postgres"
	"github.com/samirrijal/trailhead/internal/adapters/temporal"
	"github.com/samirrijal/trailhead/internal/pkg/config"
	"github.com/samirrijal/trailhead/internal/pkg/logging"
	"github.com/samirrijal/trailhead/internal/workflows"
)

func main() {
	cfg, err := config.Load("trailhead-fulfiller")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	if cfg.Storage.Driver != "postgres" {
		log.Fatal("fulfiller needs storage.driver=postgres to share state with the API")
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	acts := &workflows.FulfillmentActivities{
		Orders: postgres.NewOrderRepo(db),
		Books:  postgres.NewBookRepo(db),
	}
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, status changes will not be announced", "error", err)
		} else {
			defer pub.Close()
			acts.Events = pub
		}
	}

	// Connect to Temporal
	c, err := temporal.Dial(cfg.Temporal.HostPort, cfg.Temporal.Namespace)
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	queue := cfg.Temporal.TaskQueue
	if queue == "" {
		queue = workflows.TaskQueue
	}
	w := worker.New(c, queue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.OrderFulfillmentWorkflow)
	w.RegisterActivity(acts)

	slog.Info("fulfiller worker started", "task_queue", queue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
