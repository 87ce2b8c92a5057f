package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/pkg/metrics"
	"github.com/samirrijal/trailhead/internal/pkg/telemetry"
)

// Subjects published by the API.
const (
	SubjectActivityCreated = "trailhead.activity.created"
	SubjectOrderPlaced     = "trailhead.order.placed"
	SubjectOrderStatus     = "trailhead.order.status"

	// SubjectAll matches every event, used by the WebSocket relay.
	SubjectAll = "trailhead.>"
)

// streams lists the JetStream streams backing the subjects above.
func streams() []nats.StreamConfig {
	return []nats.StreamConfig{
		{
			Name:      "TRAILHEAD_ACTIVITIES",
			Subjects:  []string{"trailhead.activity.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "TRAILHEAD_ORDERS",
			Subjects:  []string{"trailhead.order.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and makes sure the streams exist.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := ensureStreams(js); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, js: js}, nil
}

func ensureStreams(js nats.JetStreamContext) error {
	for _, cfg := range streams() {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist; try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, subject string, v any) error {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanPublishEvent)
	defer span.End()
	span.SetAttributes(attribute.String("messaging.destination", subject))

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	metrics.EventsPublished.WithLabelValues(subject).Inc()
	return nil
}

func (p *Publisher) PublishActivityCreated(ctx context.Context, a *domain.Activity) error {
	return p.publish(ctx, SubjectActivityCreated, a)
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *domain.Order) error {
	return p.publish(ctx, SubjectOrderPlaced, o)
}

func (p *Publisher) PublishOrderStatus(ctx context.Context, o *domain.Order) error {
	return p.publish(ctx, SubjectOrderStatus, o)
}

// Ping reports whether the connection is currently usable.
func (p *Publisher) Ping(_ context.Context) error {
	if !p.conn.IsConnected() {
		return fmt.Errorf("nats: %s", p.conn.Status())
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection (e.g. for the WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("trailhead"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
