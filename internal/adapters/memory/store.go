// Package memory is the default, process-local storage backend. Every read returns copies so
// callers may sort and mutate results without holding a lock.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

// Store implements every repository port over maps guarded by one RWMutex.
type Store struct {
	mu sync.RWMutex

	activities map[int64]domain.Activity
	categories map[int64]domain.Category
	users      map[int64]domain.User
	prefs      map[int64]domain.UserPreference
	books      map[int64]domain.Book
	carts      map[int64]domain.Cart
	cartItems  map[int64]domain.CartItem
	orders     map[int64]domain.Order
	orderItems map[int64]domain.OrderItem

	nextID map[string]int64
	now    func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		activities: make(map[int64]domain.Activity),
		categories: make(map[int64]domain.Category),
		users:      make(map[int64]domain.User),
		prefs:      make(map[int64]domain.UserPreference),
		books:      make(map[int64]domain.Book),
		carts:      make(map[int64]domain.Cart),
		cartItems:  make(map[int64]domain.CartItem),
		orders:     make(map[int64]domain.Order),
		orderItems: make(map[int64]domain.OrderItem),
		nextID:     make(map[string]int64),
		now:        time.Now,
	}
}

// NewSeeded returns a store holding the sample categories, activities, and books.
func NewSeeded() *Store {
	s := New()
	ctx := context.Background()
	for _, c := range SeedCategories() {
		_ = s.Categories().Create(ctx, &c)
	}
	for _, a := range SeedActivities(s.now()) {
		_ = s.Activities().Create(ctx, &a)
	}
	for _, b := range SeedBooks() {
		_ = s.Books().Create(ctx, &b)
	}
	return s
}

// id allocates the next identifier for table. Callers hold the write lock.
func (s *Store) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// Activities returns the store's ActivityRepository view.
func (s *Store) Activities() *ActivityRepo { return &ActivityRepo{s} }

// Categories returns the store's CategoryRepository view.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s} }

// Users returns the store's UserRepository view.
func (s *Store) Users() *UserRepo { return &UserRepo{s} }

// Books returns the store's BookRepository view.
func (s *Store) Books() *BookRepo { return &BookRepo{s} }

// Carts returns the store's CartRepository view.
func (s *Store) Carts() *CartRepo { return &CartRepo{s} }

// Orders returns the store's OrderRepository view.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s} }

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
}

// cloneActivity deep-copies the slice and pointer fields of a.
func cloneActivity(a domain.Activity) domain.Activity {
	if a.Point != nil {
		p := *a.Point
		a.Point = &p
	}
	a.Tags = append([]string(nil), a.Tags...)
	a.Requirements = append([]string(nil), a.Requirements...)
	return a
}

func cloneUser(u domain.User) domain.User {
	if u.Point != nil {
		p := *u.Point
		u.Point = &p
	}
	u.Preferences = append([]string(nil), u.Preferences...)
	return u
}

// ---- activities ----

type ActivityRepo struct{ s *Store }

func (r *ActivityRepo) Create(_ context.Context, a *domain.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = r.s.id("activities")
	r.s.activities[a.ID] = cloneActivity(*a)
	return nil
}

func (r *ActivityRepo) GetByID(_ context.Context, id int64) (*domain.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.activities[id]
	if !ok {
		return nil, notFound("activity", id)
	}
	a = cloneActivity(a)
	return &a, nil
}

func (r *ActivityRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Activity, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.s.activities[id]; ok {
			out = append(out, cloneActivity(a))
		}
	}
	return out, nil
}

// selectActivities copies the activities keep admits, ordered by id.
func (r *ActivityRepo) selectActivities(keep func(*domain.Activity) bool) []domain.Activity {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Activity, 0, len(r.s.activities))
	for _, a := range r.s.activities {
		if keep(&a) {
			out = append(out, cloneActivity(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *ActivityRepo) List(_ context.Context) ([]domain.Activity, error) {
	return r.selectActivities(func(*domain.Activity) bool { return true }), nil
}

func (r *ActivityRepo) ListByCategory(_ context.Context, category string) ([]domain.Activity, error) {
	return r.selectActivities(func(a *domain.Activity) bool {
		return strings.EqualFold(a.Category, category)
	}), nil
}

func (r *ActivityRepo) ListByBudget(_ context.Context, level domain.BudgetLevel) ([]domain.Activity, error) {
	return r.selectActivities(func(a *domain.Activity) bool {
		return a.BudgetLevel == level
	}), nil
}

func (r *ActivityRepo) ListInBounds(_ context.Context, b domain.Bounds) ([]domain.Activity, error) {
	return r.selectActivities(func(a *domain.Activity) bool {
		return a.Point != nil && b.Contains(*a.Point)
	}), nil
}

// ---- categories ----

type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.id("categories")
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, notFound("category", id)
	}
	return &c, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- users ----

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return fmt.Errorf("username %q: %w", u.Username, domain.ErrConflict)
		}
	}
	u.ID = r.s.id("users")
	r.s.users[u.ID] = cloneUser(*u)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	u = cloneUser(u)
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

func (r *UserRepo) UpdateLocation(_ context.Context, id int64, label string, point domain.GeoPoint) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	u.Location = label
	u.Point = &point
	r.s.users[id] = u
	u = cloneUser(u)
	return &u, nil
}

func (r *UserRepo) ListPreferences(_ context.Context, userID int64) ([]domain.UserPreference, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.UserPreference, 0)
	for _, p := range r.s.prefs {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepo) AddPreference(_ context.Context, p *domain.UserPreference) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id("preferences")
	r.s.prefs[p.ID] = *p
	return nil
}

// ---- books ----

type BookRepo struct{ s *Store }

func (r *BookRepo) Create(_ context.Context, b *domain.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = r.s.id("books")
	r.s.books[b.ID] = *b
	return nil
}

func (r *BookRepo) GetByID(_ context.Context, id int64) (*domain.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.books[id]
	if !ok {
		return nil, notFound("book", id)
	}
	return &b, nil
}

func (r *BookRepo) selectBooks(keep func(*domain.Book) bool) []domain.Book {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Book, 0, len(r.s.books))
	for _, b := range r.s.books {
		if keep(&b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *BookRepo) List(_ context.Context) ([]domain.Book, error) {
	return r.selectBooks(func(*domain.Book) bool { return true }), nil
}

func (r *BookRepo) ListByCategory(_ context.Context, category string) ([]domain.Book, error) {
	return r.selectBooks(func(b *domain.Book) bool {
		return strings.EqualFold(b.Category, category)
	}), nil
}

func (r *BookRepo) AdjustStock(_ context.Context, id int64, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.books[id]
	if !ok {
		return notFound("book", id)
	}
	if b.StockQuantity+delta < 0 {
		return fmt.Errorf("book %d: insufficient stock (%d available): %w", id, b.StockQuantity, domain.ErrConflict)
	}
	b.StockQuantity += delta
	r.s.books[id] = b
	return nil
}

// ---- carts ----

type CartRepo struct{ s *Store }

func (r *CartRepo) OpenCart(_ context.Context, userID int64) (*domain.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.carts {
		if c.UserID == userID && !c.CheckedOut {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("open cart for user %d: %w", userID, domain.ErrNotFound)
}

func (r *CartRepo) Create(_ context.Context, userID int64) (*domain.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	c := domain.Cart{ID: r.s.id("carts"), UserID: userID, CreatedAt: now, UpdatedAt: now}
	r.s.carts[c.ID] = c
	return &c, nil
}

func (r *CartRepo) Items(_ context.Context, cartID int64) ([]domain.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.CartItem, 0)
	for _, it := range r.s.cartItems {
		if it.CartID == cartID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CartRepo) GetItem(_ context.Context, id int64) (*domain.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.cartItems[id]
	if !ok {
		return nil, notFound("cart item", id)
	}
	return &it, nil
}

// touch bumps a cart's UpdatedAt. Callers hold the write lock.
func (r *CartRepo) touch(cartID int64) {
	if c, ok := r.s.carts[cartID]; ok {
		c.UpdatedAt = r.s.now()
		r.s.carts[cartID] = c
	}
}

func (r *CartRepo) AddItem(_ context.Context, cartID, bookID int64, quantity int) (*domain.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.carts[cartID]; !ok {
		return nil, notFound("cart", cartID)
	}
	defer r.touch(cartID)
	for id, it := range r.s.cartItems {
		if it.CartID == cartID && it.BookID == bookID {
			if it.Quantity+quantity > domain.MaxItemQuantity {
				return nil, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrInvalid, domain.MaxItemQuantity)
			}
			it.Quantity += quantity
			r.s.cartItems[id] = it
			return &it, nil
		}
	}
	it := domain.CartItem{ID: r.s.id("cart_items"), CartID: cartID, BookID: bookID, Quantity: quantity, AddedAt: r.s.now()}
	r.s.cartItems[it.ID] = it
	return &it, nil
}

func (r *CartRepo) UpdateItemQuantity(_ context.Context, id int64, quantity int) (*domain.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.cartItems[id]
	if !ok {
		return nil, notFound("cart item", id)
	}
	it.Quantity = quantity
	r.s.cartItems[id] = it
	r.touch(it.CartID)
	return &it, nil
}

func (r *CartRepo) RemoveItem(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.cartItems[id]
	if !ok {
		return notFound("cart item", id)
	}
	delete(r.s.cartItems, id)
	r.touch(it.CartID)
	return nil
}

func (r *CartRepo) Clear(_ context.Context, cartID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, it := range r.s.cartItems {
		if it.CartID == cartID {
			delete(r.s.cartItems, id)
		}
	}
	r.touch(cartID)
	return nil
}

// ---- orders ----

type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(_ context.Context, o *domain.Order, items []domain.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.ID = r.s.id("orders")
	if o.OrderDate.IsZero() {
		o.OrderDate = r.s.now()
	}
	r.s.orders[o.ID] = *o
	for i := range items {
		items[i].ID = r.s.id("order_items")
		items[i].OrderID = o.ID
		r.s.orderItems[items[i].ID] = items[i]
	}
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, notFound("order", id)
	}
	return &o, nil
}

func (r *OrderRepo) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Order, 0)
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *OrderRepo) Items(_ context.Context, orderID int64) ([]domain.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.OrderItem, 0)
	for _, it := range r.s.orderItems {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, notFound("order", id)
	}
	o.Status = status
	r.s.orders[id] = o
	return &o, nil
}
