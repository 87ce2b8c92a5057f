package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/samirrijal/trailhead/internal/adapters/nats"
	"github.com/samirrijal/trailhead/internal/core/usecases"
	"github.com/samirrijal/trailhead/internal/pkg/config"
	"github.com/samirrijal/trailhead/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load("trailhead-notifier")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, "notifier")
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	svc := usecases.NewNotificationService(sub, usecases.LogDelivery(logger))
	if err := svc.Start(ctx); err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("notifier started", "nats", cfg.NATS.URL)
	<-ctx.Done()
	slog.Info("notifier stopping")
}
