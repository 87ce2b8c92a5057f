package postgres

import (
	"context"
	"fmt"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

// CategoryRepo implements ports.CategoryRepository with pgx.
type CategoryRepo struct {
	db *DB
}

// NewCategoryRepo creates a new CategoryRepo.
func NewCategoryRepo(db *DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO categories (name, icon) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET icon = EXCLUDED.icon
		RETURNING id
	`, c.Name, c.Icon).Scan(&c.ID)
	return mapErr(err, "insert category")
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.Pool.QueryRow(ctx, `SELECT id, name, icon FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Icon)
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("category %d", id))
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name, icon FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
