package repository

import (
	"context"
	"time"

	"gcmn-library-backend/internal/domains/borrow/model"
)

type RepositoryInterface interface {
	// CreateWithDecrement inserts the record and decrements the book's
	// available copies in one transaction. Either both happen or neither.
	// Returns ErrNoCopiesAvailable when the book has no free copy and
	// book/model.ErrBookNotFound when the book id does not resolve.
	CreateWithDecrement(ctx context.Context, record *model.BorrowRecord) error

	GetByID(ctx context.Context, id string) (*model.BorrowRecord, error)
	List(ctx context.Context) ([]model.BorrowRecord, error)
	ListByBorrower(ctx context.Context, borrowerID string) ([]model.BorrowRecord, error)

	// ListOverdue returns active loans whose due date is before asOf.
	ListOverdue(ctx context.Context, asOf time.Time) ([]model.BorrowRecord, error)

	// UpdateStatus applies a status transition and the matching copy-count
	// adjustment atomically. borrowed -> returned increments the book's
	// available copies (ceiling: total); returned -> borrowed decrements
	// (floor: zero) and clears the return date. returned -> returned fails
	// with ErrAlreadyReturned.
	UpdateStatus(ctx context.Context, id string, status model.BorrowStatus, returnDate *time.Time) (*model.BorrowRecord, error)

	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
}
