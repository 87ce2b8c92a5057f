package usecases

import (
	"context"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/ports"
)

// CategoryService handles activity category lookups.
type CategoryService struct {
	categories ports.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories ports.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// GetByID returns a single category.
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}
