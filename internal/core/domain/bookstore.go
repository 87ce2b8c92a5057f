package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Cents is a monetary amount in hundredths of the currency unit.
type Cents int64

// MaxItemQuantity is the largest quantity a single cart line may hold.
const MaxItemQuantity = 999

// ValidateQuantity reports whether q is an acceptable cart line quantity.
func ValidateQuantity(q int) error {
	if q < 1 || q > MaxItemQuantity {
		return fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalid, MaxItemQuantity)
	}
	return nil
}

// ParseCents parses an unsigned decimal price such as "12.99" or "5".
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty price", ErrInvalid)
	}
	if strings.ContainsAny(s, "+-") {
		return 0, fmt.Errorf("%w: price %q must not carry a sign", ErrInvalid, s)
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("%w: price %q must have at most two decimals", ErrInvalid, s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
	} else {
		frac = "00"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w > math.MaxInt64/100-1 {
		return 0, fmt.Errorf("%w: price %q", ErrInvalid, s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q", ErrInvalid, s)
	}
	return Cents(w*100 + f), nil
}

// Times multiplies the amount by a quantity, failing on overflow.
func (c Cents) Times(n int) (Cents, error) {
	if c < 0 || n < 0 {
		return 0, fmt.Errorf("%w: negative amount", ErrInvalid)
	}
	if n != 0 && c > Cents(math.MaxInt64)/Cents(n) {
		return 0, fmt.Errorf("%w: amount overflows", ErrInvalid)
	}
	return c * Cents(n), nil
}

// Plus adds two non-negative amounts, failing on overflow.
func (c Cents) Plus(d Cents) (Cents, error) {
	if c < 0 || d < 0 {
		return 0, fmt.Errorf("%w: negative amount", ErrInvalid)
	}
	if c > Cents(math.MaxInt64)-d {
		return 0, fmt.Errorf("%w: amount overflows", ErrInvalid)
	}
	return c + d, nil
}

// String formats the amount with two decimals, e.g. "25.98".
func (c Cents) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// Book is a catalog entry in the bookstore.
type Book struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	CoverImage    string `json:"coverImage"`
	Price         string `json:"price"`
	ISBN          string `json:"isbn"`
	Category      string `json:"category"`
	PublishedDate string `json:"publishedDate,omitempty"`
	StockQuantity int    `json:"stockQuantity"`
}

// Cart is a user's shopping cart. A user has at most one open cart.
type Cart struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	CheckedOut bool      `json:"checkedOut"`
}

// CartItem is a book line inside a cart.
type CartItem struct {
	ID       int64     `json:"id"`
	CartID   int64     `json:"cartId"`
	BookID   int64     `json:"bookId"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// CartLine is a cart item joined with its book and line total.
type CartLine struct {
	ID       int64  `json:"id"`
	Book     Book   `json:"book"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

// CartView is the priced contents of an open cart.
type CartView struct {
	ID        int64      `json:"id"`
	Items     []CartLine `json:"items"`
	Total     string     `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

// Order is a checked-out purchase.
type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userId"`
	OrderDate   time.Time   `json:"orderDate"`
	TotalAmount string      `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
}

// OrderItem is a priced line of an order; Price is the unit price at checkout.
type OrderItem struct {
	ID       int64  `json:"id"`
	OrderID  int64  `json:"orderId"`
	BookID   int64  `json:"bookId"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// OrderLine is an order item joined with its book.
type OrderLine struct {
	ID       int64  `json:"id"`
	Book     Book   `json:"book"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// OrderDetail is an order with its lines.
type OrderDetail struct {
	Order
	Items []OrderLine `json:"items"`
}

// OrderReceipt summarises a freshly placed order.
type OrderReceipt struct {
	ID        int64       `json:"id"`
	Total     string      `json:"total"`
	Status    OrderStatus `json:"status"`
	ItemCount int         `json:"itemCount"`
	OrderDate time.Time   `json:"orderDate"`
}

// CartItemDetail is a stored cart item together with its book.
type CartItemDetail struct {
	CartItem
	Book Book `json:"book"`
}
