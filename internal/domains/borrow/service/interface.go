package service

import (
	"context"
	"time"

	"gcmn-library-backend/internal/domains/borrow/model"
	identityModel "gcmn-library-backend/internal/domains/identity/model"
)

type ServiceInterface interface {
	// Borrow creates a loan for the acting identity, snapshotting the
	// borrower's contact details and taking one copy of the book.
	Borrow(ctx context.Context, actor identityModel.Actor, req model.BorrowRequest) (*model.BorrowRecord, error)

	GetBorrow(ctx context.Context, id string) (*model.BorrowRecord, error)
	ListBorrows(ctx context.Context) ([]model.BorrowRecord, error)
	ListMyBorrows(ctx context.Context, actor identityModel.Actor) ([]model.BorrowRecord, error)

	// MarkReturned closes a loan and gives the copy back. Returning twice
	// is rejected with ErrAlreadyReturned.
	MarkReturned(ctx context.Context, id string, returnDate *time.Time) (*model.BorrowRecord, error)

	// UpdateStatus is the admin override; the transition rules match
	// MarkReturned.
	UpdateStatus(ctx context.Context, id string, req model.UpdateStatusRequest) (*model.BorrowRecord, error)

	DeleteBorrow(ctx context.Context, id string) error

	// ListOverdue feeds the daily reminder scan.
	ListOverdue(ctx context.Context, asOf time.Time) ([]model.BorrowRecord, error)
}
