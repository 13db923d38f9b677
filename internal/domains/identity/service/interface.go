package service

import (
	"context"

	"gcmn-library-backend/internal/domains/identity/model"
	"gcmn-library-backend/internal/infrastructure/session"
)

type ServiceInterface interface {
	// Register creates an account (default role "user") and logs it in.
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error)

	// Login handles all three paths: fixed admin (secret-key triple),
	// library card (by card number), and normal account.
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error)

	// Logout destroys the server-side session.
	Logout(ctx context.Context, token string) error

	// ResolveActor maps session state to one of the four actor variants.
	// Fails with model.ErrNotAuthenticated when there is no usable identity.
	ResolveActor(ctx context.Context, sess *session.Session) (model.Actor, error)

	// RequireAdmin gates admin operations. Capability was computed at
	// resolve time, fresh for this request.
	RequireAdmin(actor model.Actor) error

	// CurrentUser describes the session identity (the /auth/me payload).
	CurrentUser(ctx context.Context, actor model.Actor) (*model.MeResponse, error)

	GetProfile(ctx context.Context, actor model.Actor) (*model.Profile, error)
	UpdateProfile(ctx context.Context, actor model.Actor, req model.UpdateProfileRequest) (*model.Profile, error)

	// ListUsers is the admin directory: student projections + other accounts.
	ListUsers(ctx context.Context) (*model.UserDirectory, error)

	// DeleteUser removes an account; the seed admin ids are protected.
	DeleteUser(ctx context.Context, id string) error
}
