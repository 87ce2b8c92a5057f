package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/ports"
)

// Notification is a user-facing message derived from a domain event. UserID is zero for
// broadcasts.
type Notification struct {
	UserID  int64
	Kind    string
	Message string
}

// DeliverFunc hands a notification to a delivery channel. An error makes the broker
// redeliver the event.
type DeliverFunc func(ctx context.Context, n Notification) error

// LogDelivery writes notifications to the structured log.
func LogDelivery(logger *slog.Logger) DeliverFunc {
	return func(ctx context.Context, n Notification) error {
		logger.InfoContext(ctx, "notification", "kind", n.Kind, "user_id", n.UserID, "message", n.Message)
		return nil
	}
}

// NotificationService turns activity and order events into notifications.
type NotificationService struct {
	events  ports.EventSubscriber
	deliver DeliverFunc
}

func NewNotificationService(events ports.EventSubscriber, deliver DeliverFunc) *NotificationService {
	return &NotificationService{events: events, deliver: deliver}
}

// Start subscribes to activity and order events. Delivery happens on the subscriber's
// goroutines until the subscriber is closed.
func (s *NotificationService) Start(ctx context.Context) error {
	if err := s.events.SubscribeActivityCreated(ctx, s.activityCreated); err != nil {
		return fmt.Errorf("subscribe activities: %w", err)
	}
	if err := s.events.SubscribeOrderEvents(ctx, s.orderEvent); err != nil {
		return fmt.Errorf("subscribe orders: %w", err)
	}
	return nil
}

func (s *NotificationService) activityCreated(ctx context.Context, a *domain.Activity) error {
	return s.deliver(ctx, Notification{
		Kind:    "activity.created",
		Message: fmt.Sprintf("New %s activity: %s (%s)", strings.ToLower(a.Category), a.Title, a.Location),
	})
}

func (s *NotificationService) orderEvent(ctx context.Context, subject string, o *domain.Order) error {
	n := Notification{UserID: o.UserID}
	switch {
	case strings.HasSuffix(subject, ".placed"):
		n.Kind = "order.placed"
		n.Message = fmt.Sprintf("Order #%d placed, total %s", o.ID, o.TotalAmount)
	case strings.HasSuffix(subject, ".status"):
		n.Kind = "order.status"
		n.Message = fmt.Sprintf("Order #%d is now %s", o.ID, o.Status)
	default:
		slog.DebugContext(ctx, "ignoring order event", "subject", subject)
		return nil
	}
	return s.deliver(ctx, n)
}
