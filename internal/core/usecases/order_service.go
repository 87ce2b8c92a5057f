package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/ports"
	"github.com/samirrijal/trailhead/internal/pkg/metrics"
	"github.com/samirrijal/trailhead/internal/pkg/telemetry"
)

// OrderService handles checkout and order lifecycle logic.
type OrderService struct {
	orders      ports.OrderRepository
	carts       ports.CartRepository
	books       ports.BookRepository
	events      ports.EventPublisher
	fulfillment ports.FulfillmentStarter
	now         func() time.Time
}

// NewOrderService creates a new OrderService. events and fulfillment may be nil.
func NewOrderService(
	orders ports.OrderRepository,
	carts ports.CartRepository,
	books ports.BookRepository,
	events ports.EventPublisher,
	fulfillment ports.FulfillmentStarter,
) *OrderService {
	return &OrderService{
		orders:      orders,
		carts:       carts,
		books:       books,
		events:      events,
		fulfillment: fulfillment,
		now:         time.Now,
	}
}

// Checkout turns the user's open cart into a pending order and empties the cart.
func (s *OrderService) Checkout(ctx context.Context, userID int64) (*domain.OrderReceipt, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanCheckout)
	defer span.End()

	cart, err := s.carts.OpenCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}
	items, err := s.carts.Items(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("cart items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cannot create order with empty cart", domain.ErrInvalid)
	}

	var total domain.Cents
	lines := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		book, err := s.books.GetByID(ctx, item.BookID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: book with id %d not found", domain.ErrInvalid, item.BookID)
		}
		if err != nil {
			return nil, err
		}
		price, err := domain.ParseCents(book.Price)
		if err != nil {
			return nil, fmt.Errorf("book %d: %w", book.ID, err)
		}
		line, err := price.Times(item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("cart item %d: %w", item.ID, err)
		}
		if total, err = total.Plus(line); err != nil {
			return nil, fmt.Errorf("order total: %w", err)
		}
		lines = append(lines, domain.OrderItem{BookID: book.ID, Quantity: item.Quantity, Price: book.Price})
	}

	order := &domain.Order{
		UserID:      userID,
		OrderDate:   s.now().UTC(),
		TotalAmount: total.String(),
		Status:      domain.OrderPending,
	}
	if err := s.orders.Create(ctx, order, lines); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID), attribute.Int("order.items", len(lines)))
	metrics.OrdersPlaced.Inc()

	if err := s.carts.Clear(ctx, cart.ID); err != nil {
		slog.WarnContext(ctx, "clear cart after checkout failed", "cart_id", cart.ID, "error", err)
	}
	if s.events != nil {
		if err := s.events.PublishOrderPlaced(ctx, order); err != nil {
			slog.WarnContext(ctx, "publish order.placed failed", "order_id", order.ID, "error", err)
		}
	}
	if s.fulfillment != nil {
		if err := s.fulfillment.StartFulfillment(ctx, order.ID, userID); err != nil {
			slog.WarnContext(ctx, "start fulfillment failed", "order_id", order.ID, "error", err)
		}
	}

	return &domain.OrderReceipt{
		ID:        order.ID,
		Total:     order.TotalAmount,
		Status:    order.Status,
		ItemCount: len(lines),
		OrderDate: order.OrderDate,
	}, nil
}

// List returns the user's orders, newest first.
func (s *OrderService) List(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Get returns one of the user's orders with its lines.
func (s *OrderService) Get(ctx context.Context, userID, orderID int64) (*domain.OrderDetail, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", orderID, err)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: not authorized to access this order", domain.ErrForbidden)
	}
	items, err := s.orders.Items(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order items: %w", err)
	}

	detail := &domain.OrderDetail{Order: *order, Items: make([]domain.OrderLine, 0, len(items))}
	for _, item := range items {
		book, err := s.books.GetByID(ctx, item.BookID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		detail.Items = append(detail.Items, domain.OrderLine{
			ID:       item.ID,
			Book:     *book,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return detail, nil
}

// UpdateStatus moves an order to status and announces the change.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be pending, paid, shipped, or delivered", domain.ErrInvalid)
	}
	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", orderID, err)
	}
	metrics.OrderStatusChanges.WithLabelValues(string(status)).Inc()
	if s.events != nil {
		if err := s.events.PublishOrderStatus(ctx, order); err != nil {
			slog.WarnContext(ctx, "publish order.status failed", "order_id", order.ID, "error", err)
		}
	}
	return order, nil
}
