package repository

import (
	"context"

	"gcmn-library-backend/internal/domains/identity/model"
)

// RepositoryInterface is the data-access contract for accounts, profiles
// and role assignments.
type RepositoryInterface interface {
	// CreateUser inserts an account together with its default role
	// assignment, in one transaction.
	// Returns model.ErrEmailAlreadyExists on the email constraint.
	CreateUser(ctx context.Context, user *model.User, defaultRole string) error

	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// DeleteUser removes the account and cascades to its profile and role
	// assignments.
	DeleteUser(ctx context.Context, id string) error

	// ListNonStudents returns directory rows for accounts that are not
	// student-typed.
	ListNonStudents(ctx context.Context) ([]model.DirectoryEntry, error)

	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpsertProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.Profile, error)

	GetRoles(ctx context.Context, userID string) ([]model.RoleAssignment, error)

	// HasRole is the per-request admin grant lookup. Never cached.
	HasRole(ctx context.Context, userID, role string) (bool, error)
}
