package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gcmn-library-backend/internal/domains/librarycard/model"
	"gcmn-library-backend/internal/domains/librarycard/repository"
	"gcmn-library-backend/internal/infrastructure/queue"
)

// ========================================
// FAKES
// ========================================

type fakeCardRepo struct {
	apps     map[string]*model.Application
	students map[string]*model.Student // keyed by lower(card id)
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{
		apps:     make(map[string]*model.Application),
		students: make(map[string]*model.Student),
	}
}

func (r *fakeCardRepo) Create(ctx context.Context, app *model.Application) error {
	for _, existing := range r.apps {
		if strings.EqualFold(existing.CardNumber, app.CardNumber) {
			return repository.ErrDuplicateCardNumber
		}
	}
	copied := *app
	r.apps[app.ID] = &copied
	return nil
}

func (r *fakeCardRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	app, ok := r.apps[strings.TrimSpace(id)]
	if !ok {
		return nil, model.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *fakeCardRepo) GetByCardNumber(ctx context.Context, cardNumber string) (*model.Application, error) {
	for _, app := range r.apps {
		if strings.EqualFold(app.CardNumber, cardNumber) {
			copied := *app
			return &copied, nil
		}
	}
	return nil, model.ErrApplicationNotFound
}

func (r *fakeCardRepo) List(ctx context.Context) ([]model.Application, error) {
	out := make([]model.Application, 0, len(r.apps))
	for _, app := range r.apps {
		out = append(out, *app)
	}
	return out, nil
}

func (r *fakeCardRepo) ListByUser(ctx context.Context, userID string) ([]model.Application, error) {
	out := make([]model.Application, 0)
	for _, app := range r.apps {
		if app.UserID != nil && *app.UserID == userID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, app := range r.apps {
		if strings.EqualFold(app.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCardRepo) CardNumberExists(ctx context.Context, cardNumber string) (bool, error) {
	for _, app := range r.apps {
		if strings.EqualFold(app.CardNumber, cardNumber) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCardRepo) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus, student *model.Student) (*model.Application, error) {
	app, ok := r.apps[strings.TrimSpace(id)]
	if !ok {
		return nil, model.ErrApplicationNotFound
	}
	app.Status = status
	if student != nil {
		key := strings.ToLower(student.CardID)
		if _, exists := r.students[key]; !exists {
			copied := *student
			r.students[key] = &copied
		}
	}
	copied := *app
	return &copied, nil
}

func (r *fakeCardRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.apps[id]; !ok {
		return model.ErrApplicationNotFound
	}
	delete(r.apps, id)
	return nil
}

func (r *fakeCardRepo) ListStudents(ctx context.Context) ([]model.Student, error) {
	out := make([]model.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, *s)
	}
	return out, nil
}

type fakeQueue struct {
	borrowEnqueued []queue.BorrowConfirmationPayload
	cardEnqueued   []queue.CardApprovedPayload
}

func (q *fakeQueue) EnqueueBorrowConfirmation(ctx context.Context, p queue.BorrowConfirmationPayload) error {
	q.borrowEnqueued = append(q.borrowEnqueued, p)
	return nil
}

func (q *fakeQueue) EnqueueCardApproved(ctx context.Context, p queue.CardApprovedPayload) error {
	q.cardEnqueued = append(q.cardEnqueued, p)
	return nil
}

func (q *fakeQueue) Close() error { return nil }

func validRequest() model.SubmitApplicationRequest {
	return model.SubmitApplicationRequest{
		FirstName: "Ayesha",
		LastName:  "Khan",
		Class:     "Class 12",
		Field:     "Computer Science",
		RollNo:    "45",
		Email:     "ayesha@example.com",
		Phone:     "0300-1234567",
	}
}

// ========================================
// CARD NUMBER DERIVATION
// ========================================

func TestFieldCode(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"Computer Science", "CS"},
		{"Commerce", "COM"},
		{"Humanities", "HM"},
		{"Pre-Engineering", "PE"},
		{"Pre-Medical", "PM"},
		{"Astrology", "XX"},
		{"", "XX"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FieldCode(tt.field), "field %q", tt.field)
	}
}

func TestClassToken(t *testing.T) {
	assert.Equal(t, "12", ClassToken("Class 12"))
	assert.Equal(t, "11", ClassToken("11th"))
	// No digits at all: the raw class string is used verbatim.
	assert.Equal(t, "Senior", ClassToken("Senior"))
}

func TestBaseCardNumber(t *testing.T) {
	assert.Equal(t, "CS-45-12", BaseCardNumber("Computer Science", "45", "Class 12"))
	assert.Equal(t, "XX-7-Senior", BaseCardNumber("Unknown", "7", "Senior"))
}

// ========================================
// SUBMISSION
// ========================================

func TestSubmitApplication_GeneratesCardAndStudentID(t *testing.T) {
	repo := newFakeCardRepo()
	svc := NewCardService(repo, &fakeQueue{})

	app, err := svc.SubmitApplication(context.Background(), nil, validRequest())
	require.NoError(t, err)

	assert.Equal(t, "CS-45-12", app.CardNumber)
	assert.Equal(t, model.StatusPending, app.Status)
	assert.True(t, strings.HasPrefix(app.StudentID, "GCMN-"))
	assert.Len(t, app.StudentID, len("GCMN-")+6)

	issue, err := time.Parse("2006-01-02", app.IssueDate)
	require.NoError(t, err)
	valid, err := time.Parse("2006-01-02", app.ValidThrough)
	require.NoError(t, err)
	assert.Equal(t, issue.AddDate(0, 0, 365), valid)
}

func TestSubmitApplication_SuffixesOnCollision(t *testing.T) {
	repo := newFakeCardRepo()
	svc := NewCardService(repo, &fakeQueue{})

	first, err := svc.SubmitApplication(context.Background(), nil, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "CS-45-12", first.CardNumber)

	second := validRequest()
	second.Email = "ayesha2@example.com"
	app2, err := svc.SubmitApplication(context.Background(), nil, second)
	require.NoError(t, err)
	assert.Equal(t, "CS-45-12-1", app2.CardNumber)

	third := validRequest()
	third.Email = "ayesha3@example.com"
	app3, err := svc.SubmitApplication(context.Background(), nil, third)
	require.NoError(t, err)
	assert.Equal(t, "CS-45-12-2", app3.CardNumber)
}

func TestSubmitApplication_DuplicateEmail(t *testing.T) {
	repo := newFakeCardRepo()
	svc := NewCardService(repo, &fakeQueue{})

	_, err := svc.SubmitApplication(context.Background(), nil, validRequest())
	require.NoError(t, err)

	_, err = svc.SubmitApplication(context.Background(), nil, validRequest())
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)
}

func TestSubmitApplication_MissingFields(t *testing.T) {
	svc := NewCardService(newFakeCardRepo(), &fakeQueue{})

	req := validRequest()
	req.RollNo = ""
	_, err := svc.SubmitApplication(context.Background(), nil, req)
	assert.Error(t, err)
}

// ========================================
// STATUS TRANSITIONS
// ========================================

func TestSetStatus_ApprovalCreatesStudentOnce(t *testing.T) {
	repo := newFakeCardRepo()
	q := &fakeQueue{}
	svc := NewCardService(repo, q)

	app, err := svc.SubmitApplication(context.Background(), nil, validRequest())
	require.NoError(t, err)

	updated, err := svc.SetStatus(context.Background(), app.ID, model.SetStatusRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status)

	students, err := repo.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "card-"+app.ID, students[0].UserID)
	assert.Equal(t, app.CardNumber, students[0].CardID)
	assert.Equal(t, "Ayesha Khan", students[0].Name)

	// Approving again must not create a second projection.
	_, err = svc.SetStatus(context.Background(), app.ID, model.SetStatusRequest{Status: "approved"})
	require.NoError(t, err)
	students, _ = repo.ListStudents(context.Background())
	assert.Len(t, students, 1)

	require.NotEmpty(t, q.cardEnqueued)
	assert.Equal(t, app.CardNumber, q.cardEnqueued[0].CardNumber)
}

func TestSetStatus_LinkedAccountOwnsStudent(t *testing.T) {
	repo := newFakeCardRepo()
	svc := NewCardService(repo, &fakeQueue{})

	userID := "user-77"
	app, err := svc.SubmitApplication(context.Background(), &userID, validRequest())
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), app.ID, model.SetStatusRequest{Status: "approved"})
	require.NoError(t, err)

	students, _ := repo.ListStudents(context.Background())
	require.Len(t, students, 1)
	assert.Equal(t, userID, students[0].UserID)
}

func TestSetStatus_RejectedCreatesNoStudent(t *testing.T) {
	repo := newFakeCardRepo()
	q := &fakeQueue{}
	svc := NewCardService(repo, q)

	app, err := svc.SubmitApplication(context.Background(), nil, validRequest())
	require.NoError(t, err)

	updated, err := svc.SetStatus(context.Background(), app.ID, model.SetStatusRequest{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, updated.Status)

	students, _ := repo.ListStudents(context.Background())
	assert.Empty(t, students)
	assert.Empty(t, q.cardEnqueued)
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	repo := newFakeCardRepo()
	svc := NewCardService(repo, &fakeQueue{})

	app, err := svc.SubmitApplication(context.Background(), nil, validRequest())
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), app.ID, model.SetStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestSetStatus_UnknownApplication(t *testing.T) {
	svc := NewCardService(newFakeCardRepo(), &fakeQueue{})

	_, err := svc.SetStatus(context.Background(), "missing", model.SetStatusRequest{Status: "approved"})
	assert.ErrorIs(t, err, model.ErrApplicationNotFound)
}
