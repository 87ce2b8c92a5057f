package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

// CartRepo implements ports.CartRepository with pgx.
type CartRepo struct {
	db *DB
}

// NewCartRepo creates a new CartRepo.
func NewCartRepo(db *DB) *CartRepo {
	return &CartRepo{db: db}
}

func (r *CartRepo) OpenCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	var c domain.Cart
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, user_id, created_at, updated_at, checked_out
		FROM carts WHERE user_id = $1 AND NOT checked_out
	`, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt, &c.CheckedOut)
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("open cart for user %d", userID))
	}
	return &c, nil
}

// Create opens a cart for the user. A concurrent create for the same user yields the
// existing open cart.
func (r *CartRepo) Create(ctx context.Context, userID int64) (*domain.Cart, error) {
	var c domain.Cart
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) WHERE NOT checked_out DO UPDATE SET updated_at = carts.updated_at
		RETURNING id, user_id, created_at, updated_at, checked_out
	`, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt, &c.CheckedOut)
	if err != nil {
		return nil, mapErr(err, "create cart")
	}
	return &c, nil
}

func scanCartItem(row pgx.Row) (*domain.CartItem, error) {
	var it domain.CartItem
	if err := row.Scan(&it.ID, &it.CartID, &it.BookID, &it.Quantity, &it.AddedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *CartRepo) Items(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, cart_id, book_id, quantity, added_at FROM cart_items WHERE cart_id = $1 ORDER BY id
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CartItem, 0)
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func (r *CartRepo) GetItem(ctx context.Context, id int64) (*domain.CartItem, error) {
	it, err := scanCartItem(r.db.Pool.QueryRow(ctx, `
		SELECT id, cart_id, book_id, quantity, added_at FROM cart_items WHERE id = $1
	`, id))
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("cart item %d", id))
	}
	return it, nil
}

func touchCart(ctx context.Context, tx pgx.Tx, cartID int64) error {
	_, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	return err
}

func (r *CartRepo) AddItem(ctx context.Context, cartID, bookID int64, quantity int) (*domain.CartItem, error) {
	var it *domain.CartItem
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		it, err = scanCartItem(tx.QueryRow(ctx, `
			INSERT INTO cart_items (cart_id, book_id, quantity) VALUES ($1, $2, $3)
			ON CONFLICT (cart_id, book_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
			WHERE cart_items.quantity + EXCLUDED.quantity <= $4
			RETURNING id, cart_id, book_id, quantity, added_at
		`, cartID, bookID, quantity, domain.MaxItemQuantity))
		if errors.Is(err, pgx.ErrNoRows) {
			// the conflicting row exists but the merged quantity is over the limit
			return fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrInvalid, domain.MaxItemQuantity)
		}
		if err != nil {
			return err
		}
		return touchCart(ctx, tx, cartID)
	})
	if err != nil {
		return nil, mapErr(err, "add cart item")
	}
	return it, nil
}

func (r *CartRepo) UpdateItemQuantity(ctx context.Context, id int64, quantity int) (*domain.CartItem, error) {
	var it *domain.CartItem
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		it, err = scanCartItem(tx.QueryRow(ctx, `
			UPDATE cart_items SET quantity = $2 WHERE id = $1
			RETURNING id, cart_id, book_id, quantity, added_at
		`, id, quantity))
		if err != nil {
			return err
		}
		return touchCart(ctx, tx, it.CartID)
	})
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("cart item %d", id))
	}
	return it, nil
}

func (r *CartRepo) RemoveItem(ctx context.Context, id int64) error {
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		var cartID int64
		if err := tx.QueryRow(ctx, `DELETE FROM cart_items WHERE id = $1 RETURNING cart_id`, id).Scan(&cartID); err != nil {
			return err
		}
		return touchCart(ctx, tx, cartID)
	})
	return mapErr(err, fmt.Sprintf("cart item %d", id))
}

func (r *CartRepo) Clear(ctx context.Context, cartID int64) error {
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return err
		}
		return touchCart(ctx, tx, cartID)
	})
	return mapErr(err, fmt.Sprintf("clear cart %d", cartID))
}
