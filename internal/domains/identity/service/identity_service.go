package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gcmn-library-backend/internal/config"
	"gcmn-library-backend/internal/domains/identity/model"
	"gcmn-library-backend/internal/domains/identity/repository"
	cardModel "gcmn-library-backend/internal/domains/librarycard/model"
	cardRepo "gcmn-library-backend/internal/domains/librarycard/repository"
	"gcmn-library-backend/internal/infrastructure/session"
	"gcmn-library-backend/internal/shared/utils"
)

const bcryptCost = 10

// identityService implements ServiceInterface. It owns session creation and
// the mapping from session state to actors.
type identityService struct {
	repo     repository.RepositoryInterface
	cards    cardRepo.RepositoryInterface
	sessions session.Store
	admin    config.AdminConfig
}

func NewIdentityService(
	repo repository.RepositoryInterface,
	cards cardRepo.RepositoryInterface,
	sessions session.Store,
	admin config.AdminConfig,
) ServiceInterface {
	return &identityService{
		repo:     repo,
		cards:    cards,
		sessions: sessions,
		admin:    admin,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *identityService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, model.ErrEmailAlreadyExists
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userType := "user"
	if req.StudentClass != "" {
		userType = "student"
	}

	now := time.Now()
	user := &model.User{
		ID:           utils.GenerateHexID(),
		Email:        req.Email,
		Password:     string(hash),
		FullName:     req.FullName,
		Phone:        optional(req.Phone),
		RollNumber:   optional(req.RollNumber),
		Department:   optional(req.Department),
		StudentClass: optional(req.StudentClass),
		Type:         userType,
		CreatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user, model.RoleUser); err != nil {
		return nil, err
	}

	token, err := s.sessions.Create(ctx, session.Session{UserID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &model.AuthResult{
		User:         model.PublicUser{ID: user.ID, Email: user.Email},
		SessionToken: token,
	}, nil
}

func (s *identityService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
	// Fixed-admin path: all three secrets must match. A wrong secret key
	// falls through to normal account authentication, it never rejects
	// outright.
	if req.SecretKey != "" &&
		req.Email == s.admin.Email &&
		req.Password == s.admin.Password &&
		req.SecretKey == s.admin.SecretKey {
		token, err := s.sessions.Create(ctx, session.Session{
			UserID:  model.FixedAdminID,
			IsAdmin: true,
		})
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		return &model.AuthResult{
			User:         model.PublicUser{ID: model.FixedAdminID, Email: s.admin.Email},
			IsAdmin:      true,
			Redirect:     "/admin-dashboard",
			SessionToken: token,
		}, nil
	}

	// Library-card path: card number only, no password. Only approved
	// applications may log in; pending and rejected get distinct reasons.
	if req.LibraryCardID != "" {
		return s.loginWithCard(ctx, req.LibraryCardID)
	}

	// Normal account path.
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, session.Session{UserID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &model.AuthResult{
		User:         model.PublicUser{ID: user.ID, Email: user.Email},
		SessionToken: token,
	}, nil
}

func (s *identityService) loginWithCard(ctx context.Context, cardNumber string) (*model.AuthResult, error) {
	app, err := s.cards.GetByCardNumber(ctx, cardNumber)
	if errors.Is(err, cardModel.ErrApplicationNotFound) {
		return nil, model.ErrCardNotFound
	}
	if err != nil {
		return nil, err
	}

	switch app.Status {
	case cardModel.StatusApproved:
		// fall through to session creation
	case cardModel.StatusPending:
		return nil, model.ErrCardPending
	case cardModel.StatusRejected:
		return nil, model.ErrCardRejected
	default:
		return nil, model.ErrCardInactive
	}

	token, err := s.sessions.Create(ctx, session.Session{
		UserID:        model.CardSessionPrefix + app.ID,
		IsLibraryCard: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &model.AuthResult{
		User: model.PublicUser{
			ID:    app.ID,
			Email: app.Email,
			Name:  app.FullName(),
		},
		IsLibraryCard: true,
		SessionToken:  token,
	}, nil
}

func (s *identityService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// ========================================
// ACTOR RESOLUTION
// ========================================

func (s *identityService) ResolveActor(ctx context.Context, sess *session.Session) (model.Actor, error) {
	if sess == nil || sess.UserID == "" {
		return model.Anonymous(), model.ErrNotAuthenticated
	}

	// Fixed admin: sentinel id plus the isAdmin flag.
	if sess.IsAdmin && sess.UserID == model.FixedAdminID {
		return model.Actor{
			Kind:      model.ActorFixedAdmin,
			AccountID: model.FixedAdminID,
			Admin:     true,
		}, nil
	}

	// Library-card holder: the application must still exist.
	if sess.IsLibraryCard {
		appID := model.CardApplicationID(sess.UserID)
		if _, err := s.cards.GetByID(ctx, appID); err != nil {
			return model.Anonymous(), model.ErrNotAuthenticated
		}
		return model.Actor{
			Kind:          model.ActorLibraryCard,
			ApplicationID: appID,
		}, nil
	}

	// Account: must still exist; admin capability comes from a fresh role
	// lookup, so grants and revocations take effect on the next request.
	user, err := s.repo.GetUser(ctx, sess.UserID)
	if err != nil {
		return model.Anonymous(), model.ErrNotAuthenticated
	}

	isAdmin, err := s.repo.HasRole(ctx, user.ID, model.RoleAdmin)
	if err != nil {
		return model.Anonymous(), fmt.Errorf("check admin role: %w", err)
	}

	return model.Actor{
		Kind:      model.ActorAccount,
		AccountID: user.ID,
		Admin:     isAdmin,
	}, nil
}

func (s *identityService) RequireAdmin(actor model.Actor) error {
	if actor.Admin {
		return nil
	}
	return model.ErrForbidden
}

// ========================================
// CURRENT IDENTITY
// ========================================

func (s *identityService) CurrentUser(ctx context.Context, actor model.Actor) (*model.MeResponse, error) {
	switch actor.Kind {
	case model.ActorFixedAdmin:
		return &model.MeResponse{
			User:    model.PublicUser{ID: model.FixedAdminID, Email: s.admin.Email},
			Roles:   []string{model.RoleAdmin},
			IsAdmin: true,
		}, nil

	case model.ActorLibraryCard:
		app, err := s.cards.GetByID(ctx, actor.ApplicationID)
		if errors.Is(err, cardModel.ErrApplicationNotFound) {
			return nil, model.ErrNotAuthenticated
		}
		if err != nil {
			return nil, err
		}
		return &model.MeResponse{
			User: model.PublicUser{
				ID:         app.ID,
				Email:      app.Email,
				Name:       app.FullName(),
				CardNumber: app.CardNumber,
			},
			IsLibraryCard: true,
		}, nil

	case model.ActorAccount:
		user, err := s.repo.GetUser(ctx, actor.AccountID)
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrNotAuthenticated
		}
		if err != nil {
			return nil, err
		}

		profile, err := s.repo.GetProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}

		assignments, err := s.repo.GetRoles(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		roles := make([]string, 0, len(assignments))
		for _, ra := range assignments {
			roles = append(roles, ra.Role)
		}

		return &model.MeResponse{
			User:    model.PublicUser{ID: user.ID, Email: user.Email},
			Profile: profile,
			Roles:   roles,
			IsAdmin: actor.Admin,
		}, nil
	}

	return nil, model.ErrNotAuthenticated
}

func (s *identityService) GetProfile(ctx context.Context, actor model.Actor) (*model.Profile, error) {
	if actor.Kind == model.ActorAnonymous {
		return nil, model.ErrNotAuthenticated
	}
	return s.repo.GetProfile(ctx, actor.SessionUserID())
}

func (s *identityService) UpdateProfile(ctx context.Context, actor model.Actor, req model.UpdateProfileRequest) (*model.Profile, error) {
	if actor.Kind == model.ActorAnonymous {
		return nil, model.ErrNotAuthenticated
	}
	return s.repo.UpsertProfile(ctx, actor.SessionUserID(), req)
}

// ========================================
// ADMIN DIRECTORY
// ========================================

func (s *identityService) ListUsers(ctx context.Context) (*model.UserDirectory, error) {
	students, err := s.cards.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	nonStudents, err := s.repo.ListNonStudents(ctx)
	if err != nil {
		return nil, err
	}

	return &model.UserDirectory{
		Students:    students,
		NonStudents: nonStudents,
	}, nil
}

func (s *identityService) DeleteUser(ctx context.Context, id string) error {
	if model.ProtectedUserIDs[utils.CleanID(id)] {
		return model.ErrProtectedAccount
	}
	return s.repo.DeleteUser(ctx, id)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
