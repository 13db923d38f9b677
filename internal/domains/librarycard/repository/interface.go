package repository

import (
	"context"

	"gcmn-library-backend/internal/domains/librarycard/model"
)

// RepositoryInterface is the data-access contract for card applications
// and the Student projection.
type RepositoryInterface interface {
	// Create inserts a new application.
	// Returns model.ErrDuplicateEmail on the email uniqueness constraint and
	// ErrDuplicateCardNumber on the card-number constraint (the service
	// re-runs its suffix loop on the latter).
	Create(ctx context.Context, app *model.Application) error

	// GetByID looks an application up by trimmed id.
	GetByID(ctx context.Context, id string) (*model.Application, error)

	// GetByCardNumber matches case-insensitively. Used by card login.
	GetByCardNumber(ctx context.Context, cardNumber string) (*model.Application, error)

	List(ctx context.Context) ([]model.Application, error)
	ListByUser(ctx context.Context, userID string) ([]model.Application, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CardNumberExists(ctx context.Context, cardNumber string) (bool, error)

	// UpdateStatus sets the status. When student is non-nil the projection
	// insert happens in the same transaction, skipped if a student with the
	// same card number (case-insensitive) already exists.
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus, student *model.Student) (*model.Application, error)

	Delete(ctx context.Context, id string) error

	ListStudents(ctx context.Context) ([]model.Student, error)
}
