package ports

import (
	"context"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

// ActivityRepository persists activities.
// List methods return freshly allocated slices the caller may sort and filter freely.
type ActivityRepository interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Activity, error)
	List(ctx context.Context) ([]domain.Activity, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Activity, error)
	ListByBudget(ctx context.Context, level domain.BudgetLevel) ([]domain.Activity, error)
	// ListInBounds returns the located activities whose point lies inside b.
	ListInBounds(ctx context.Context, b domain.Bounds) ([]domain.Activity, error)
}

// CategoryRepository persists activity categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

// UserRepository persists user accounts and their preferences.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateLocation(ctx context.Context, id int64, label string, point domain.GeoPoint) (*domain.User, error)
	ListPreferences(ctx context.Context, userID int64) ([]domain.UserPreference, error)
	AddPreference(ctx context.Context, p *domain.UserPreference) error
}

// BookRepository persists the bookstore catalog.
type BookRepository interface {
	Create(ctx context.Context, b *domain.Book) error
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Book, error)
	// AdjustStock adds delta to a book's stock; it fails with ErrConflict when the result
	// would be negative.
	AdjustStock(ctx context.Context, id int64, delta int) error
}

// CartRepository persists carts and their items.
type CartRepository interface {
	// OpenCart returns the user's cart that has not been checked out.
	OpenCart(ctx context.Context, userID int64) (*domain.Cart, error)
	Create(ctx context.Context, userID int64) (*domain.Cart, error)
	Items(ctx context.Context, cartID int64) ([]domain.CartItem, error)
	GetItem(ctx context.Context, id int64) (*domain.CartItem, error)
	// AddItem inserts a line, or adds quantity to the existing line for the same book.
	AddItem(ctx context.Context, cartID, bookID int64, quantity int) (*domain.CartItem, error)
	UpdateItemQuantity(ctx context.Context, id int64, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, id int64) error
	Clear(ctx context.Context, cartID int64) error
}

// OrderRepository persists orders and their items.
type OrderRepository interface {
	// Create stores the order and its items together.
	Create(ctx context.Context, o *domain.Order, items []domain.OrderItem) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
}
