package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gcmn-library-backend/internal/config"
	bookModel "gcmn-library-backend/internal/domains/book/model"
	"gcmn-library-backend/internal/domains/borrow/model"
	identityModel "gcmn-library-backend/internal/domains/identity/model"
	cardModel "gcmn-library-backend/internal/domains/librarycard/model"
	"gcmn-library-backend/internal/infrastructure/queue"
)

// ========================================
// FAKES
// ========================================

type fakeBookRepo struct {
	books map[string]*bookModel.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[string]*bookModel.Book)}
}

func (r *fakeBookRepo) Create(ctx context.Context, b *bookModel.Book) error {
	copied := *b
	r.books[b.ID] = &copied
	return nil
}

func (r *fakeBookRepo) GetByID(ctx context.Context, id string) (*bookModel.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, bookModel.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookRepo) List(ctx context.Context) ([]bookModel.Book, error) {
	out := make([]bookModel.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookRepo) UpdateFields(ctx context.Context, id string, name, shortIntro, description, image *string) (*bookModel.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, bookModel.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookRepo) SetTotalCopies(ctx context.Context, id string, newTotal int) (*bookModel.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, bookModel.ErrBookNotFound
	}
	borrowed := b.TotalCopies - b.AvailableCopies
	b.TotalCopies = newTotal
	b.AvailableCopies = max(0, newTotal-borrowed)
	copied := *b
	return &copied, nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id string) error {
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) Count(ctx context.Context) (int, error) {
	return len(r.books), nil
}

// fakeBorrowRepo mirrors the transactional copy-count coupling of the
// real repository against the fake book store.
type fakeBorrowRepo struct {
	books   *fakeBookRepo
	records map[string]*model.BorrowRecord
}

func newFakeBorrowRepo(books *fakeBookRepo) *fakeBorrowRepo {
	return &fakeBorrowRepo{books: books, records: make(map[string]*model.BorrowRecord)}
}

func (r *fakeBorrowRepo) CreateWithDecrement(ctx context.Context, record *model.BorrowRecord) error {
	b, ok := r.books.books[record.BookID]
	if !ok {
		return bookModel.ErrBookNotFound
	}
	if b.AvailableCopies <= 0 {
		return model.ErrNoCopiesAvailable
	}
	b.AvailableCopies = max(0, b.AvailableCopies-1)

	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeBorrowRepo) GetByID(ctx context.Context, id string) (*model.BorrowRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, model.ErrBorrowNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *fakeBorrowRepo) List(ctx context.Context) ([]model.BorrowRecord, error) {
	out := make([]model.BorrowRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out, nil
}

func (r *fakeBorrowRepo) ListByBorrower(ctx context.Context, borrowerID string) ([]model.BorrowRecord, error) {
	out := make([]model.BorrowRecord, 0)
	for _, rec := range r.records {
		if rec.BorrowerID == borrowerID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeBorrowRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]model.BorrowRecord, error) {
	out := make([]model.BorrowRecord, 0)
	for _, rec := range r.records {
		if rec.Status == model.StatusBorrowed && rec.DueDate.Before(asOf) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeBorrowRepo) UpdateStatus(ctx context.Context, id string, status model.BorrowStatus, returnDate *time.Time) (*model.BorrowRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, model.ErrBorrowNotFound
	}

	book := r.books.books[rec.BookID]
	switch {
	case rec.Status == model.StatusReturned && status == model.StatusReturned:
		return nil, model.ErrAlreadyReturned

	case rec.Status == model.StatusBorrowed && status == model.StatusReturned:
		when := time.Now()
		if returnDate != nil {
			when = *returnDate
		}
		rec.Status = model.StatusReturned
		rec.ReturnDate = &when
		if book != nil {
			book.AvailableCopies = min(book.TotalCopies, book.AvailableCopies+1)
		}

	case rec.Status == model.StatusReturned && status == model.StatusBorrowed:
		rec.Status = model.StatusBorrowed
		rec.ReturnDate = nil
		if book != nil {
			book.AvailableCopies = max(0, book.AvailableCopies-1)
		}
	}

	copied := *rec
	return &copied, nil
}

func (r *fakeBorrowRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.records[id]; !ok {
		return model.ErrBorrowNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakeBorrowRepo) Count(ctx context.Context) (int, error) {
	return len(r.records), nil
}

func (r *fakeBorrowRepo) CountActive(ctx context.Context) (int, error) {
	n := 0
	for _, rec := range r.records {
		if rec.Status == model.StatusBorrowed {
			n++
		}
	}
	return n, nil
}

type fakeAccountRepo struct {
	users    map[string]*identityModel.User
	profiles map[string]*identityModel.Profile
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		users:    make(map[string]*identityModel.User),
		profiles: make(map[string]*identityModel.Profile),
	}
}

func (r *fakeAccountRepo) CreateUser(ctx context.Context, u *identityModel.User, defaultRole string) error {
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeAccountRepo) GetUser(ctx context.Context, id string) (*identityModel.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, identityModel.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeAccountRepo) GetUserByEmail(ctx context.Context, email string) (*identityModel.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, identityModel.ErrUserNotFound
}

func (r *fakeAccountRepo) DeleteUser(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeAccountRepo) ListNonStudents(ctx context.Context) ([]identityModel.DirectoryEntry, error) {
	return nil, nil
}

func (r *fakeAccountRepo) GetProfile(ctx context.Context, userID string) (*identityModel.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeAccountRepo) UpsertProfile(ctx context.Context, userID string, req identityModel.UpdateProfileRequest) (*identityModel.Profile, error) {
	return nil, nil
}

func (r *fakeAccountRepo) GetRoles(ctx context.Context, userID string) ([]identityModel.RoleAssignment, error) {
	return nil, nil
}

func (r *fakeAccountRepo) HasRole(ctx context.Context, userID, role string) (bool, error) {
	return false, nil
}

type fakeCardRepo struct {
	apps map[string]*cardModel.Application
}

func (r *fakeCardRepo) Create(ctx context.Context, app *cardModel.Application) error { return nil }

func (r *fakeCardRepo) GetByID(ctx context.Context, id string) (*cardModel.Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, cardModel.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *fakeCardRepo) GetByCardNumber(ctx context.Context, cardNumber string) (*cardModel.Application, error) {
	return nil, cardModel.ErrApplicationNotFound
}

func (r *fakeCardRepo) List(ctx context.Context) ([]cardModel.Application, error) { return nil, nil }
func (r *fakeCardRepo) ListByUser(ctx context.Context, userID string) ([]cardModel.Application, error) {
	return nil, nil
}
func (r *fakeCardRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (r *fakeCardRepo) CardNumberExists(ctx context.Context, cardNumber string) (bool, error) {
	return false, nil
}
func (r *fakeCardRepo) UpdateStatus(ctx context.Context, id string, status cardModel.ApplicationStatus, student *cardModel.Student) (*cardModel.Application, error) {
	return nil, cardModel.ErrApplicationNotFound
}
func (r *fakeCardRepo) Delete(ctx context.Context, id string) error { return nil }
func (r *fakeCardRepo) ListStudents(ctx context.Context) ([]cardModel.Student, error) {
	return nil, nil
}

type fakeQueue struct {
	borrowEnqueued []queue.BorrowConfirmationPayload
}

func (q *fakeQueue) EnqueueBorrowConfirmation(ctx context.Context, p queue.BorrowConfirmationPayload) error {
	q.borrowEnqueued = append(q.borrowEnqueued, p)
	return nil
}
func (q *fakeQueue) EnqueueCardApproved(ctx context.Context, p queue.CardApprovedPayload) error {
	return nil
}
func (q *fakeQueue) Close() error { return nil }

// ========================================
// FIXTURE
// ========================================

type fixture struct {
	svc     ServiceInterface
	books   *fakeBookRepo
	borrows *fakeBorrowRepo
	users   *fakeAccountRepo
	cards   *fakeCardRepo
	queue   *fakeQueue
}

func newFixture() *fixture {
	books := newFakeBookRepo()
	borrows := newFakeBorrowRepo(books)
	users := newFakeAccountRepo()
	cards := &fakeCardRepo{apps: make(map[string]*cardModel.Application)}
	q := &fakeQueue{}

	admin := config.AdminConfig{Email: "admin@gcmn.edu.pk"}
	return &fixture{
		svc:     NewBorrowService(borrows, books, users, cards, q, admin),
		books:   books,
		borrows: borrows,
		users:   users,
		cards:   cards,
		queue:   q,
	}
}

func (f *fixture) addBook(id string, total, available int) {
	f.books.books[id] = &bookModel.Book{
		ID: id, Name: "Sapiens", TotalCopies: total, AvailableCopies: available,
		CreatedAt: time.Now(),
	}
}

func (f *fixture) addUser(id string) {
	phone := "0300-0000000"
	f.users.users[id] = &identityModel.User{
		ID: id, Email: "reader@example.com", FullName: "Bilal Ahmed", Phone: &phone,
	}
}

func accountActor(id string) identityModel.Actor {
	return identityModel.Actor{Kind: identityModel.ActorAccount, AccountID: id}
}

// ========================================
// BORROW
// ========================================

func TestBorrow_AnonymousRejected(t *testing.T) {
	f := newFixture()
	f.addBook("b1", 1, 1)

	_, err := f.svc.Borrow(context.Background(), identityModel.Anonymous(), model.BorrowRequest{BookID: "b1"})
	assert.ErrorIs(t, err, identityModel.ErrNotAuthenticated)
}

func TestBorrow_UnknownBook(t *testing.T) {
	f := newFixture()
	f.addUser("u1")

	_, err := f.svc.Borrow(context.Background(), accountActor("u1"), model.BorrowRequest{BookID: "nope"})
	assert.ErrorIs(t, err, bookModel.ErrBookNotFound)
}

func TestBorrow_SnapshotsAndDecrements(t *testing.T) {
	f := newFixture()
	f.addBook("b1", 3, 3)
	f.addUser("u1")

	rec, err := f.svc.Borrow(context.Background(), accountActor("u1"), model.BorrowRequest{BookID: "b1"})
	require.NoError(t, err)

	assert.Equal(t, "Sapiens", rec.BookName)
	assert.Equal(t, "Bilal Ahmed", rec.BorrowerName)
	assert.Equal(t, "reader@example.com", rec.BorrowerEmail)
	assert.Equal(t, model.StatusBorrowed, rec.Status)
	assert.Equal(t, rec.BorrowDate.Add(model.LoanPeriod), rec.DueDate)

	book, _ := f.books.GetByID(context.Background(), "b1")
	assert.Equal(t, 2, book.AvailableCopies)

	require.Len(t, f.queue.borrowEnqueued, 1)
	assert.Equal(t, "Sapiens", f.queue.borrowEnqueued[0].BookTitle)
}

func TestBorrow_ProfileOverridesSnapshot(t *testing.T) {
	f := newFixture()
	f.addBook("b1", 1, 1)
	f.addUser("u1")
	f.users.profiles["u1"] = &identityModel.Profile{
		UserID: "u1", FullName: "Bilal A. Ahmed", Phone: "0311-9999999",
	}

	rec, err := f.svc.Borrow(context.Background(), accountActor("u1"), model.BorrowRequest{BookID: "b1"})
	require.NoError(t, err)

	assert.Equal(t, "Bilal A. Ahmed", rec.BorrowerName)
	require.NotNil(t, rec.BorrowerPhone)
	assert.Equal(t, "0311-9999999", *rec.BorrowerPhone)
}

func TestBorrow_CardHolderSnapshot(t *testing.T) {
	f := newFixture()
	f.addBook("b1", 1, 1)
	f.cards.apps["app1"] = &cardModel.Application{
		ID: "app1", FirstName: "Ayesha", LastName: "Khan",
		Email: "ayesha@example.com", Phone: "0300-1234567",
		CardNumber: "CS-45-12", Status: cardModel.StatusApproved,
	}

	actor := identityModel.Actor{Kind: identityModel.ActorLibraryCard, ApplicationID: "app1"}
	rec, err := f.svc.Borrow(context.Background(), actor, model.BorrowRequest{BookID: "b1"})
	require.NoError(t, err)

	assert.Equal(t, "Ayesha Khan", rec.BorrowerName)
	require.NotNil(t, rec.CardNumber)
	assert.Equal(t, "CS-45-12", *rec.CardNumber)
	assert.Equal(t, "card-app1", rec.BorrowerID)
}

func TestBorrow_LastCopy(t *testing.T) {
	f := newFixture()
	f.addBook("b1", 1, 1)
	f.addUser("u1")

	_, err := f.svc.Borrow(context.Background(), accountActor("u1"), model.BorrowRequest{BookID: "b1"})
	require.NoError(t, err)

	book, _ := f.books.GetByID(context.Background(), "b1")
	assert.Equal(t, 0, book.AvailableCopies)

	_, err = f.svc.Borrow(context.Background(), accountActor("u1"), model.BorrowRequest{BookID: "b1"})
	assert.ErrorIs(t, err, model.ErrNoCopiesAvailable)
}

// ========================================
// RETURN
// ========================================

func TestMarkReturned_RoundTrip(t *testing.T) {
	f := newFixture()
	f.addBook("b1", 2, 2)
	f.addUser("u1")

	rec, err := f.svc.Borrow(context.Background(), accountActor("u1"), model.BorrowRequest{BookID: "b1"})
	require.NoError(t, err)

	returned, err := f.svc.MarkReturned(context.Background(), rec.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReturned, returned.Status)
	assert.NotNil(t, returned.ReturnDate)

	// Availability is back to its pre-borrow value.
	book, _ := f.books.GetByID(context.Background(), "b1")
	assert.Equal(t, 2, book.AvailableCopies)
}

func TestMarkReturned_TwiceRejected(t *testing.T) {
	f := newFixture()
	f.addBook("b1", 1, 1)
	f.addUser("u1")

	rec, err := f.svc.Borrow(context.Background(), accountActor("u1"), model.BorrowRequest{BookID: "b1"})
	require.NoError(t, err)

	_, err = f.svc.MarkReturned(context.Background(), rec.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.MarkReturned(context.Background(), rec.ID, nil)
	assert.ErrorIs(t, err, model.ErrAlreadyReturned)

	// The second attempt must not touch availability.
	book, _ := f.books.GetByID(context.Background(), "b1")
	assert.Equal(t, 1, book.AvailableCopies)
}

func TestMarkReturned_ClampedToTotal(t *testing.T) {
	f := newFixture()
	f.addBook("b1", 2, 2)
	f.addUser("u1")

	rec, err := f.svc.Borrow(context.Background(), accountActor("u1"), model.BorrowRequest{BookID: "b1"})
	require.NoError(t, err)

	// Shrink the inventory while the copy is out.
	_, err = f.books.SetTotalCopies(context.Background(), "b1", 1)
	require.NoError(t, err)

	_, err = f.svc.MarkReturned(context.Background(), rec.ID, nil)
	require.NoError(t, err)

	book, _ := f.books.GetByID(context.Background(), "b1")
	assert.Equal(t, 1, book.AvailableCopies)
	assert.LessOrEqual(t, book.AvailableCopies, book.TotalCopies)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateStatus(context.Background(), "x", model.UpdateStatusRequest{Status: "lost"})
	assert.ErrorIs(t, err, model.ErrInvalidBorrowStatus)
}

func TestUpdateStatus_ReopenTakesCopyBack(t *testing.T) {
	f := newFixture()
	f.addBook("b1", 1, 1)
	f.addUser("u1")

	rec, err := f.svc.Borrow(context.Background(), accountActor("u1"), model.BorrowRequest{BookID: "b1"})
	require.NoError(t, err)

	_, err = f.svc.MarkReturned(context.Background(), rec.ID, nil)
	require.NoError(t, err)

	reopened, err := f.svc.UpdateStatus(context.Background(), rec.ID, model.UpdateStatusRequest{Status: model.StatusBorrowed})
	require.NoError(t, err)
	assert.Equal(t, model.StatusBorrowed, reopened.Status)
	assert.Nil(t, reopened.ReturnDate)

	book, _ := f.books.GetByID(context.Background(), "b1")
	assert.Equal(t, 0, book.AvailableCopies)
}

// ========================================
// QUERIES
// ========================================

func TestListMyBorrows_ScopedToActor(t *testing.T) {
	f := newFixture()
	f.addBook("b1", 5, 5)
	f.addUser("u1")
	f.addUser("u2")

	_, err := f.svc.Borrow(context.Background(), accountActor("u1"), model.BorrowRequest{BookID: "b1"})
	require.NoError(t, err)
	_, err = f.svc.Borrow(context.Background(), accountActor("u2"), model.BorrowRequest{BookID: "b1"})
	require.NoError(t, err)

	mine, err := f.svc.ListMyBorrows(context.Background(), accountActor("u1"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "u1", mine[0].BorrowerID)
}

func TestListOverdue(t *testing.T) {
	f := newFixture()
	f.addBook("b1", 2, 2)
	f.addUser("u1")

	rec, err := f.svc.Borrow(context.Background(), accountActor("u1"), model.BorrowRequest{BookID: "b1"})
	require.NoError(t, err)

	overdue, err := f.svc.ListOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, overdue)

	overdue, err = f.svc.ListOverdue(context.Background(), rec.DueDate.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, rec.ID, overdue[0].ID)
}
