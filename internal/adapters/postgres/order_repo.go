package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

const orderColumns = `id, user_id, order_date, total_amount::text, status`

// OrderRepo implements ports.OrderRepository with pgx.
type OrderRepo struct {
	db *DB
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount, &status); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

// Create inserts the order and its items in one transaction using pgx.Batch for the items.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order, items []domain.OrderItem) error {
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO orders (user_id, order_date, total_amount, status)
			VALUES ($1, $2, $3::numeric, $4)
			RETURNING id, order_date
		`, o.UserID, o.OrderDate, o.TotalAmount, string(o.Status)).Scan(&o.ID, &o.OrderDate); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, it := range items {
			batch.Queue(`
				INSERT INTO order_items (order_id, book_id, quantity, price)
				VALUES ($1, $2, $3, $4::numeric) RETURNING id
			`, o.ID, it.BookID, it.Quantity, it.Price)
		}
		br := tx.SendBatch(ctx, batch)
		for i := range items {
			if err := br.QueryRow().Scan(&items[i].ID); err != nil {
				br.Close()
				return fmt.Errorf("batch insert order item: %w", err)
			}
			items[i].OrderID = o.ID
		}
		return br.Close()
	})
	return mapErr(err, "create order")
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrder(r.db.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("order %d", id))
	}
	return o, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY order_date DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *OrderRepo) Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, order_id, book_id, quantity, price::text FROM order_items WHERE order_id = $1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	out := make([]domain.OrderItem, 0)
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.BookID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	o, err := scanOrder(r.db.Pool.QueryRow(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1 RETURNING `+orderColumns, id, string(status)))
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("order %d", id))
	}
	return o, nil
}
