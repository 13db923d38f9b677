package service

import (
	"context"
	"time"

	"gcmn-library-backend/internal/config"
	bookRepo "gcmn-library-backend/internal/domains/book/repository"
	"gcmn-library-backend/internal/domains/borrow/model"
	"gcmn-library-backend/internal/domains/borrow/repository"
	identityModel "gcmn-library-backend/internal/domains/identity/model"
	identityRepo "gcmn-library-backend/internal/domains/identity/repository"
	cardRepo "gcmn-library-backend/internal/domains/librarycard/repository"
	"gcmn-library-backend/internal/infrastructure/queue"
	"gcmn-library-backend/internal/shared/utils"
	"gcmn-library-backend/pkg/logger"
)

type borrowService struct {
	repo     repository.RepositoryInterface
	books    bookRepo.RepositoryInterface
	accounts identityRepo.RepositoryInterface
	cards    cardRepo.RepositoryInterface
	queue    queue.Client
	admin    config.AdminConfig
}

func NewBorrowService(
	repo repository.RepositoryInterface,
	books bookRepo.RepositoryInterface,
	accounts identityRepo.RepositoryInterface,
	cards cardRepo.RepositoryInterface,
	queueClient queue.Client,
	admin config.AdminConfig,
) ServiceInterface {
	return &borrowService{
		repo:     repo,
		books:    books,
		accounts: accounts,
		cards:    cards,
		queue:    queueClient,
		admin:    admin,
	}
}

// borrowerSnapshot is the contact sheet frozen onto the record at borrow
// time.
type borrowerSnapshot struct {
	Name       string
	Phone      *string
	Email      string
	CardNumber *string
}

// ========================================
// BORROW / RETURN
// ========================================

func (s *borrowService) Borrow(ctx context.Context, actor identityModel.Actor, req model.BorrowRequest) (*model.BorrowRecord, error) {
	if actor.Kind == identityModel.ActorAnonymous {
		return nil, identityModel.ErrNotAuthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book, err := s.books.GetByID(ctx, utils.CleanID(req.BookID))
	if err != nil {
		return nil, err
	}
	// Fast-path check; the conditional decrement re-verifies under the
	// row lock.
	if book.AvailableCopies <= 0 {
		return nil, model.ErrNoCopiesAvailable
	}

	snap, err := s.snapshotBorrower(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := &model.BorrowRecord{
		ID:            utils.GenerateHexID(),
		BookID:        book.ID,
		BookName:      book.Name,
		BorrowerID:    actor.SessionUserID(),
		BorrowerName:  snap.Name,
		BorrowerPhone: snap.Phone,
		BorrowerEmail: snap.Email,
		CardNumber:    snap.CardNumber,
		BorrowDate:    now,
		DueDate:       now.Add(model.LoanPeriod),
		Status:        model.StatusBorrowed,
		CreatedAt:     now,
	}

	if err := s.repo.CreateWithDecrement(ctx, record); err != nil {
		return nil, err
	}

	// Confirmation email is best effort and never rolls back the loan.
	if err := s.queue.EnqueueBorrowConfirmation(ctx, queue.BorrowConfirmationPayload{
		Email:     record.BorrowerEmail,
		Name:      record.BorrowerName,
		BookTitle: record.BookName,
		DueDate:   record.DueDate.Format("2006-01-02"),
	}); err != nil {
		logger.Error("enqueue borrow confirmation email", err)
	}

	return record, nil
}

func (s *borrowService) MarkReturned(ctx context.Context, id string, returnDate *time.Time) (*model.BorrowRecord, error) {
	return s.repo.UpdateStatus(ctx, utils.CleanID(id), model.StatusReturned, returnDate)
}

func (s *borrowService) UpdateStatus(ctx context.Context, id string, req model.UpdateStatusRequest) (*model.BorrowRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, utils.CleanID(id), req.Status, req.ReturnDate)
}

// ========================================
// QUERIES
// ========================================

func (s *borrowService) GetBorrow(ctx context.Context, id string) (*model.BorrowRecord, error) {
	return s.repo.GetByID(ctx, utils.CleanID(id))
}

func (s *borrowService) ListBorrows(ctx context.Context) ([]model.BorrowRecord, error) {
	return s.repo.List(ctx)
}

func (s *borrowService) ListMyBorrows(ctx context.Context, actor identityModel.Actor) ([]model.BorrowRecord, error) {
	if actor.Kind == identityModel.ActorAnonymous {
		return nil, identityModel.ErrNotAuthenticated
	}
	return s.repo.ListByBorrower(ctx, actor.SessionUserID())
}

func (s *borrowService) ListOverdue(ctx context.Context, asOf time.Time) ([]model.BorrowRecord, error) {
	return s.repo.ListOverdue(ctx, asOf)
}

func (s *borrowService) DeleteBorrow(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, utils.CleanID(id))
}

// ========================================
// SNAPSHOTS
// ========================================

// snapshotBorrower resolves contact details per actor variant. The values
// are copied onto the record and never re-synced.
func (s *borrowService) snapshotBorrower(ctx context.Context, actor identityModel.Actor) (*borrowerSnapshot, error) {
	switch actor.Kind {
	case identityModel.ActorFixedAdmin:
		return &borrowerSnapshot{
			Name:  "Library Administrator",
			Email: s.admin.Email,
		}, nil

	case identityModel.ActorLibraryCard:
		app, err := s.cards.GetByID(ctx, actor.ApplicationID)
		if err != nil {
			return nil, err
		}
		phone := app.Phone
		card := app.CardNumber
		return &borrowerSnapshot{
			Name:       app.FullName(),
			Phone:      &phone,
			Email:      app.Email,
			CardNumber: &card,
		}, nil

	default:
		user, err := s.accounts.GetUser(ctx, actor.AccountID)
		if err != nil {
			return nil, err
		}

		snap := &borrowerSnapshot{
			Name:  user.FullName,
			Phone: user.Phone,
			Email: user.Email,
		}

		// Prefer the profile contact sheet when one exists.
		profile, err := s.accounts.GetProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			if profile.FullName != "" {
				snap.Name = profile.FullName
			}
			if profile.Phone != "" {
				phone := profile.Phone
				snap.Phone = &phone
			}
		}
		return snap, nil
	}
}
