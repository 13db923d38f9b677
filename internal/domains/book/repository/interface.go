package repository

import (
	"context"

	"gcmn-library-backend/internal/domains/book/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id string) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)

	// UpdateFields applies partial edits excluding copy counts.
	UpdateFields(ctx context.Context, id string, name, shortIntro, description, image *string) (*model.Book, error)

	// SetTotalCopies changes the total while preserving the on-loan count:
	// newAvailable = max(0, newTotal - (oldTotal - oldAvailable)).
	// Computed atomically in SQL so concurrent borrows cannot skew it.
	SetTotalCopies(ctx context.Context, id string, newTotal int) (*model.Book, error)

	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
}
