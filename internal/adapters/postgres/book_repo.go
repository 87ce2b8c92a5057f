package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

const bookColumns = `id, title, author, description, cover_image, price::text, isbn, category, published_date, stock_quantity`

// BookRepo implements ports.BookRepository with pgx.
type BookRepo struct {
	db *DB
}

// NewBookRepo creates a new BookRepo.
func NewBookRepo(db *DB) *BookRepo {
	return &BookRepo{db: db}
}

func scanBook(row pgx.Row) (domain.Book, error) {
	var b domain.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.CoverImage,
		&b.Price, &b.ISBN, &b.Category, &b.PublishedDate, &b.StockQuantity)
	return b, err
}

func (r *BookRepo) query(ctx context.Context, sql string, args ...any) ([]domain.Book, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Create inserts a book, or refreshes the existing row with the same ISBN.
func (r *BookRepo) Create(ctx context.Context, b *domain.Book) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO books (title, author, description, cover_image, price, isbn, category, published_date, stock_quantity)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)
		ON CONFLICT (isbn) DO UPDATE
		SET title = EXCLUDED.title, author = EXCLUDED.author, price = EXCLUDED.price
		RETURNING id
	`, b.Title, b.Author, b.Description, b.CoverImage, b.Price, b.ISBN, b.Category, b.PublishedDate, b.StockQuantity).
		Scan(&b.ID)
	return mapErr(err, "insert book")
}

func (r *BookRepo) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	b, err := scanBook(r.db.Pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("book %d", id))
	}
	return &b, nil
}

func (r *BookRepo) List(ctx context.Context) ([]domain.Book, error) {
	return r.query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
}

func (r *BookRepo) ListByCategory(ctx context.Context, category string) ([]domain.Book, error) {
	return r.query(ctx, `SELECT `+bookColumns+` FROM books WHERE lower(category) = lower($1) ORDER BY id`, category)
}

// AdjustStock relies on the books_stock_nonnegative check to reject oversells.
func (r *BookRepo) AdjustStock(ctx context.Context, id int64, delta int) error {
	var stock int
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE books SET stock_quantity = stock_quantity + $2 WHERE id = $1 RETURNING stock_quantity
	`, id, delta).Scan(&stock)
	return mapErr(err, fmt.Sprintf("adjust stock of book %d", id))
}
