package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using durable JetStream consumers.
type Subscriber struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	durable string
	subs    []*nats.Subscription
}

// NewSubscriber connects to NATS. durablePrefix names the consumers so that restarts resume
// where the previous process stopped.
func NewSubscriber(url, durablePrefix string) (*Subscriber, error) {
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
	return &Subscriber{conn: conn, js: js, durable: durablePrefix}, nil
}

// subscribe decodes each message into a fresh T and acks only when handle succeeds.
func subscribe[T any](ctx context.Context, s *Subscriber, subject, durable string, handle func(ctx context.Context, subject string, v *T) error) error {
	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		var v T
		if err := json.Unmarshal(msg.Data, &v); err != nil {
			slog.WarnContext(ctx, "dropping undecodable event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handle(ctx, msg.Subject, &v); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(s.durable+"-"+durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

func (s *Subscriber) SubscribeActivityCreated(ctx context.Context, handler func(ctx context.Context, a *domain.Activity) error) error {
	return subscribe(ctx, s, SubjectActivityCreated, "activities",
		func(ctx context.Context, _ string, a *domain.Activity) error { return handler(ctx, a) })
}

func (s *Subscriber) SubscribeOrderEvents(ctx context.Context, handler func(ctx context.Context, subject string, o *domain.Order) error) error {
	return subscribe(ctx, s, "trailhead.order.>", "orders", handler)
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
