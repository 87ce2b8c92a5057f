package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/ports"
)

// ErrTypeInsufficientStock marks the non-retryable failure raised when an order cannot be reserved.
const ErrTypeInsufficientStock = "InsufficientStock"

// StockReservation records how many copies of a book were taken for an order.
type StockReservation struct {
	BookID   int64
	Quantity int
}

// FulfillmentActivities holds the activity implementations for the fulfillment workflow.
type FulfillmentActivities struct {
	Orders ports.OrderRepository
	Books  ports.BookRepository
	Events ports.EventPublisher
}

// ReserveStock takes every item of the order out of stock. It is all or nothing: a partial
// reservation is put back before the error is returned.
func (a *FulfillmentActivities) ReserveStock(ctx context.Context, orderID int64) ([]StockReservation, error) {
	items, err := a.Orders.Items(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %d items: %w", orderID, err)
	}

	reserved := make([]StockReservation, 0, len(items))
	for _, it := range items {
		err := a.Books.AdjustStock(ctx, it.BookID, -it.Quantity)
		if err == nil {
			reserved = append(reserved, StockReservation{BookID: it.BookID, Quantity: it.Quantity})
			continue
		}

		if rerr := a.ReleaseStock(ctx, reserved); rerr != nil {
			err = errors.Join(err, rerr)
		}
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return nil, temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("book %d: insufficient stock for order %d", it.BookID, orderID),
				ErrTypeInsufficientStock, err)
		}
		return nil, err
	}

	activity.GetLogger(ctx).Info("stock reserved", "orderID", orderID, "lines", len(reserved))
	return reserved, nil
}

// ReleaseStock returns reserved copies to stock (saga compensation).
func (a *FulfillmentActivities) ReleaseStock(ctx context.Context, reserved []StockReservation) error {
	var errs []error
	for _, r := range reserved {
		if err := a.Books.AdjustStock(ctx, r.BookID, r.Quantity); err != nil {
			errs = append(errs, fmt.Errorf("release book %d: %w", r.BookID, err))
		}
	}
	return errors.Join(errs...)
}

// MarkOrderStatus moves the order to the given status.
func (a *FulfillmentActivities) MarkOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	if _, err := a.Orders.UpdateStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("mark order %d %s: %w", orderID, status, err)
	}
	return nil
}

// PublishOrderStatus announces the order's current status.
func (a *FulfillmentActivities) PublishOrderStatus(ctx context.Context, orderID int64) error {
	if a.Events == nil {
		activity.GetLogger(ctx).Info("no event publisher configured, skipping", "orderID", orderID)
		return nil
	}
	o, err := a.Orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order %d: %w", orderID, err)
	}
	return a.Events.PublishOrderStatus(ctx, o)
}
