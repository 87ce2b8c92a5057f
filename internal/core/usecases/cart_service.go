package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/ports"
)

// CartService handles shopping cart logic.
type CartService struct {
	carts ports.CartRepository
	books ports.BookRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts ports.CartRepository, books ports.BookRepository) *CartService {
	return &CartService{carts: carts, books: books}
}

// openOrCreate returns the user's open cart, creating an empty one when there is none.
func (s *CartService) openOrCreate(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := s.carts.OpenCart(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.carts.Create(ctx, userID)
	}
	return cart, err
}

// View returns the priced contents of the user's cart.
func (s *CartService) View(ctx context.Context, userID int64) (*domain.CartView, error) {
	cart, err := s.openOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}
	items, err := s.carts.Items(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("cart items: %w", err)
	}

	view := &domain.CartView{ID: cart.ID, Items: make([]domain.CartLine, 0, len(items)), ItemCount: len(items)}
	var total domain.Cents
	for _, item := range items {
		book, err := s.books.GetByID(ctx, item.BookID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
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
			return nil, fmt.Errorf("cart total: %w", err)
		}
		view.Items = append(view.Items, domain.CartLine{
			ID:       item.ID,
			Book:     *book,
			Quantity: item.Quantity,
			Total:    line.String(),
		})
	}
	view.Total = total.String()
	return view, nil
}

// AddItem puts quantity copies of a book in the user's cart.
func (s *CartService) AddItem(ctx context.Context, userID, bookID int64, quantity int) (*domain.CartItemDetail, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("book %d: %w", bookID, err)
	}
	cart, err := s.openOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}
	item, err := s.carts.AddItem(ctx, cart.ID, bookID, quantity)
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}
	return &domain.CartItemDetail{CartItem: *item, Book: *book}, nil
}

// ownedItem loads a cart item and checks it sits in the user's open cart.
func (s *CartService) ownedItem(ctx context.Context, userID, itemID int64) (*domain.CartItem, error) {
	item, err := s.carts.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("cart item %d: %w", itemID, err)
	}
	cart, err := s.carts.OpenCart(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if cart == nil || cart.ID != item.CartID {
		return nil, fmt.Errorf("%w: not authorized to access this cart item", domain.ErrForbidden)
	}
	return item, nil
}

// UpdateItem sets the quantity of a line in the user's cart.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (*domain.CartItem, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	return s.carts.UpdateItemQuantity(ctx, itemID, quantity)
}

// RemoveItem deletes a line from the user's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}
	return s.carts.RemoveItem(ctx, itemID)
}

// Clear empties the user's open cart.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	cart, err := s.carts.OpenCart(ctx, userID)
	if err != nil {
		return fmt.Errorf("cart: %w", err)
	}
	return s.carts.Clear(ctx, cart.ID)
}
