package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/ports"
)

// BookService handles bookstore catalog lookups.
type BookService struct {
	books ports.BookRepository
}

// NewBookService creates a new BookService.
func NewBookService(books ports.BookRepository) *BookService {
	return &BookService{books: books}
}

func (s *BookService) List(ctx context.Context) ([]domain.Book, error) {
	return s.books.List(ctx)
}

func (s *BookService) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	return s.books.GetByID(ctx, id)
}

// ListByCategory returns books in category, compared case-insensitively.
func (s *BookService) ListByCategory(ctx context.Context, category string) ([]domain.Book, error) {
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("%w: category must not be empty", domain.ErrInvalid)
	}
	return s.books.ListByCategory(ctx, category)
}
