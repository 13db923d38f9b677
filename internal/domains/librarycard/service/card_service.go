package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gcmn-library-backend/internal/domains/librarycard/model"
	"gcmn-library-backend/internal/domains/librarycard/repository"
	"gcmn-library-backend/internal/infrastructure/queue"
	"gcmn-library-backend/internal/shared/utils"
	"gcmn-library-backend/pkg/logger"
)

// fieldCodeMap maps the declared field of study to the 2-3 letter prefix of
// the card number. Anything unknown becomes "XX".
var fieldCodeMap = map[string]string{
	"Computer Science": "CS",
	"Commerce":         "COM",
	"Humanities":       "HM",
	"Pre-Engineering":  "PE",
	"Pre-Medical":      "PM",
}

const studentIDPrefix = "GCMN-"

// cardService implements ServiceInterface.
type cardService struct {
	repo  repository.RepositoryInterface
	queue queue.Client
}

func NewCardService(repo repository.RepositoryInterface, queueClient queue.Client) ServiceInterface {
	return &cardService{repo: repo, queue: queueClient}
}

// FieldCode resolves the field-of-study prefix used in card numbers.
func FieldCode(field string) string {
	if code, ok := fieldCodeMap[field]; ok {
		return code
	}
	return "XX"
}

// ClassToken strips the class string down to its digits ("Class 12" -> "12").
// A class with no digits at all is used verbatim.
func ClassToken(class string) string {
	if digits := utils.DigitsOnly(class); digits != "" {
		return digits
	}
	return class
}

// BaseCardNumber composes the candidate card number before uniqueness
// suffixing: {fieldCode}-{rollNo}-{classToken}.
func BaseCardNumber(field, rollNo, class string) string {
	return fmt.Sprintf("%s-%s-%s", FieldCode(field), rollNo, ClassToken(class))
}

func generateStudentID() string {
	return fmt.Sprintf("%s%06d", studentIDPrefix, rand.Intn(1000000))
}

func (s *cardService) SubmitApplication(ctx context.Context, userID *string, req model.SubmitApplicationRequest) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check application email: %w", err)
	}
	if exists {
		return nil, model.ErrDuplicateEmail
	}

	now := time.Now()
	app := &model.Application{
		ID:            utils.GenerateHexID(),
		UserID:        userID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		FatherName:    req.FatherName,
		DOB:           req.DOB,
		Class:         req.Class,
		Field:         req.Field,
		RollNo:        req.RollNo,
		Email:         req.Email,
		Phone:         req.Phone,
		AddressStreet: req.AddressStreet,
		AddressCity:   req.AddressCity,
		AddressState:  req.AddressState,
		AddressZip:    req.AddressZip,
		StudentID:     generateStudentID(),
		IssueDate:     now.Format("2006-01-02"),
		ValidThrough:  now.AddDate(0, 0, 365).Format("2006-01-02"),
		Status:        model.StatusPending,
		CreatedAt:     now,
	}

	// The suffix loop terminates for any finite set of existing numbers:
	// the counter is strictly increasing. A concurrent submit can still win
	// the same candidate, so a unique-index collision at insert re-runs the
	// loop instead of failing the request.
	base := BaseCardNumber(req.Field, req.RollNo, req.Class)
	for attempt := 0; attempt < 3; attempt++ {
		cardNumber, err := s.nextFreeCardNumber(ctx, base)
		if err != nil {
			return nil, err
		}
		app.CardNumber = cardNumber

		err = s.repo.Create(ctx, app)
		if errors.Is(err, repository.ErrDuplicateCardNumber) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return app, nil
	}

	return nil, fmt.Errorf("failed to allocate a unique card number for %q", base)
}

func (s *cardService) nextFreeCardNumber(ctx context.Context, base string) (string, error) {
	cardNumber := base
	for counter := 1; ; counter++ {
		exists, err := s.repo.CardNumberExists(ctx, cardNumber)
		if err != nil {
			return "", fmt.Errorf("check card number: %w", err)
		}
		if !exists {
			return cardNumber, nil
		}
		cardNumber = fmt.Sprintf("%s-%d", base, counter)
	}
}

func (s *cardService) SetStatus(ctx context.Context, id string, req model.SetStatusRequest) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	status := model.ApplicationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.IsValid() {
		return nil, model.ErrInvalidStatus
	}

	// The Student projection travels in the same transaction as the status
	// flip; the repository skips the insert when one already exists for the
	// card number.
	var student *model.Student
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == model.StatusApproved {
		ownerID := fmt.Sprintf("card-%s", app.ID)
		if app.UserID != nil && *app.UserID != "" {
			ownerID = *app.UserID
		}
		student = &model.Student{
			ID:        utils.GenerateHexID(),
			UserID:    ownerID,
			CardID:    app.CardNumber,
			Name:      app.FullName(),
			Class:     app.Class,
			Field:     app.Field,
			RollNo:    app.RollNo,
			Email:     app.Email,
			Phone:     app.Phone,
			CreatedAt: time.Now(),
		}
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status, student)
	if err != nil {
		return nil, err
	}

	if status == model.StatusApproved {
		// Fire-and-forget: a failed enqueue never rolls back the approval.
		if err := s.queue.EnqueueCardApproved(ctx, queue.CardApprovedPayload{
			Email:      updated.Email,
			Name:       updated.FullName(),
			CardNumber: updated.CardNumber,
		}); err != nil {
			logger.Error("enqueue card approved email", err)
		}
	}

	return updated, nil
}

func (s *cardService) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *cardService) GetByCardNumber(ctx context.Context, cardNumber string) (*model.Application, error) {
	return s.repo.GetByCardNumber(ctx, cardNumber)
}

func (s *cardService) ListApplications(ctx context.Context) ([]model.Application, error) {
	return s.repo.List(ctx)
}

func (s *cardService) ListApplicationsByUser(ctx context.Context, userID string) ([]model.Application, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *cardService) DeleteApplication(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
