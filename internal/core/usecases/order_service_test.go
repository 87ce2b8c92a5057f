package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/trailhead/internal/adapters/memory"
	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/usecases"
)

type shop struct {
	store   *memory.Store
	carts   *usecases.CartService
	orders  *usecases.OrderService
	events  *mockPublisher
	starter *mockStarter
}

func newShop() *shop {
	store := memory.NewSeeded()
	events := &mockPublisher{}
	starter := &mockStarter{}
	return &shop{
		store:   store,
		carts:   usecases.NewCartService(store.Carts(), store.Books()),
		orders:  usecases.NewOrderService(store.Orders(), store.Carts(), store.Books(), events, starter),
		events:  events,
		starter: starter,
	}
}

func TestCartService_ViewCreatesEmptyCart(t *testing.T) {
	s := newShop()
	view, err := s.carts.View(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.ID == 0 || len(view.Items) != 0 || view.Total != "0.00" || view.ItemCount != 0 {
		t.Errorf("unexpected empty cart: %+v", view)
	}
}

func TestCartService_TotalsInCents(t *testing.T) {
	s := newShop()
	ctx := context.Background()

	// Gatsby 12.99 x2 and 1984 11.99 x1.
	if _, err := s.carts.AddItem(ctx, 1, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.carts.AddItem(ctx, 1, 3, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := s.carts.View(ctx, 1)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Total != "37.97" {
		t.Errorf("expected total 37.97, got %s", view.Total)
	}
	if view.Items[0].Total != "25.98" {
		t.Errorf("expected line total 25.98, got %s", view.Items[0].Total)
	}
	if view.ItemCount != 2 {
		t.Errorf("expected 2 lines, got %d", view.ItemCount)
	}
}

func TestCartService_AddItem_Errors(t *testing.T) {
	s := newShop()
	ctx := context.Background()

	if _, err := s.carts.AddItem(ctx, 1, 999, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown book: expected ErrNotFound, got %v", err)
	}
	if _, err := s.carts.AddItem(ctx, 1, 1, 0); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("zero quantity: expected ErrInvalid, got %v", err)
	}
}

func TestCartService_QuantityLimit(t *testing.T) {
	s := newShop()
	ctx := context.Background()

	if _, err := s.carts.AddItem(ctx, 1, 1, domain.MaxItemQuantity+1); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("add over limit: expected ErrInvalid, got %v", err)
	}
	item, err := s.carts.AddItem(ctx, 1, 1, 600)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.carts.AddItem(ctx, 1, 1, 400); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("merge over limit: expected ErrInvalid, got %v", err)
	}
	if _, err := s.carts.UpdateItem(ctx, 1, item.ID, domain.MaxItemQuantity+1); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("update over limit: expected ErrInvalid, got %v", err)
	}

	view, err := s.carts.View(ctx, 1)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 600 {
		t.Errorf("rejected changes must leave the line alone: %+v", view.Items)
	}
}

func TestCartService_ForeignItemIsForbidden(t *testing.T) {
	s := newShop()
	ctx := context.Background()
	item, _ := s.carts.AddItem(ctx, 1, 1, 1)

	if _, err := s.carts.UpdateItem(ctx, 2, item.ID, 3); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("update: expected ErrForbidden, got %v", err)
	}
	if err := s.carts.RemoveItem(ctx, 2, item.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("remove: expected ErrForbidden, got %v", err)
	}
	if _, err := s.carts.UpdateItem(ctx, 1, 12345, 3); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing item: expected ErrNotFound, got %v", err)
	}
	updated, err := s.carts.UpdateItem(ctx, 1, item.ID, 4)
	if err != nil || updated.Quantity != 4 {
		t.Errorf("owner update: %v %+v", err, updated)
	}
}

func TestCartService_Clear(t *testing.T) {
	s := newShop()
	ctx := context.Background()

	if err := s.carts.Clear(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("no cart: expected ErrNotFound, got %v", err)
	}
	_, _ = s.carts.AddItem(ctx, 1, 1, 1)
	if err := s.carts.Clear(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}
	view, _ := s.carts.View(ctx, 1)
	if len(view.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(view.Items))
	}
}

func TestOrderService_Checkout(t *testing.T) {
	s := newShop()
	ctx := context.Background()
	_, _ = s.carts.AddItem(ctx, 1, 1, 2)
	_, _ = s.carts.AddItem(ctx, 1, 4, 1)

	receipt, err := s.orders.Checkout(ctx, 1)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if receipt.Total != "35.97" || receipt.Status != domain.OrderPending || receipt.ItemCount != 2 {
		t.Errorf("unexpected receipt: %+v", receipt)
	}
	if len(s.events.placed) != 1 || s.events.placed[0] != receipt.ID {
		t.Errorf("expected order.placed for %d, got %v", receipt.ID, s.events.placed)
	}
	if len(s.starter.started) != 1 {
		t.Errorf("expected fulfillment to start, got %v", s.starter.started)
	}

	view, _ := s.carts.View(ctx, 1)
	if len(view.Items) != 0 {
		t.Error("cart should be empty after checkout")
	}

	detail, err := s.orders.Get(ctx, 1, receipt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Items) != 2 || detail.Items[0].Price != "12.99" {
		t.Errorf("unexpected order lines: %+v", detail.Items)
	}
}

func TestOrderService_Checkout_Errors(t *testing.T) {
	s := newShop()
	ctx := context.Background()

	if _, err := s.orders.Checkout(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("no cart: expected ErrNotFound, got %v", err)
	}
	_, _ = s.carts.View(ctx, 1)
	if _, err := s.orders.Checkout(ctx, 1); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("empty cart: expected ErrInvalid, got %v", err)
	}
}

func TestOrderService_Checkout_TotalOverflow(t *testing.T) {
	s := newShop()
	ctx := context.Background()

	pricey := &domain.Book{Title: "Atlas", Price: "92233720368547757.00", ISBN: "0000000000", Category: "Reference"}
	if err := s.store.Books().Create(ctx, pricey); err != nil {
		t.Fatalf("create book: %v", err)
	}
	if _, err := s.carts.AddItem(ctx, 1, pricey.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := s.carts.View(ctx, 1); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("view: expected ErrInvalid, got %v", err)
	}
	if _, err := s.orders.Checkout(ctx, 1); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("checkout: expected ErrInvalid, got %v", err)
	}
	if orders, _ := s.orders.List(ctx, 1); len(orders) != 0 {
		t.Errorf("expected no order, got %d", len(orders))
	}
}

func TestOrderService_Checkout_FulfillmentFailureIsNotFatal(t *testing.T) {
	s := newShop()
	s.starter.err = errors.New("temporal down")
	ctx := context.Background()
	_, _ = s.carts.AddItem(ctx, 1, 1, 1)

	if _, err := s.orders.Checkout(ctx, 1); err != nil {
		t.Fatalf("checkout should succeed without fulfillment: %v", err)
	}
}

func TestOrderService_GetForeignOrder(t *testing.T) {
	s := newShop()
	ctx := context.Background()
	_, _ = s.carts.AddItem(ctx, 1, 1, 1)
	receipt, _ := s.orders.Checkout(ctx, 1)

	if _, err := s.orders.Get(ctx, 2, receipt.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := s.orders.Get(ctx, 1, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	s := newShop()
	ctx := context.Background()
	_, _ = s.carts.AddItem(ctx, 1, 1, 1)
	receipt, _ := s.orders.Checkout(ctx, 1)

	if _, err := s.orders.UpdateStatus(ctx, receipt.ID, "lost"); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if _, err := s.orders.UpdateStatus(ctx, 999, domain.OrderPaid); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	o, err := s.orders.UpdateStatus(ctx, receipt.ID, domain.OrderShipped)
	if err != nil || o.Status != domain.OrderShipped {
		t.Fatalf("update: %v %+v", err, o)
	}
	if len(s.events.statuses) != 1 || s.events.statuses[0] != domain.OrderShipped {
		t.Errorf("expected order.status shipped, got %v", s.events.statuses)
	}
}
