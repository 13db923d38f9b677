package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gcmn-library-backend/internal/domains/book/model"
)

// ========================================
// FAKES
// ========================================

type fakeBookRepo struct {
	books   map[string]*model.Book
	failIDs map[string]error // Create failures by book name
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{
		books:   make(map[string]*model.Book),
		failIDs: make(map[string]error),
	}
}

func (r *fakeBookRepo) Create(ctx context.Context, b *model.Book) error {
	if err, ok := r.failIDs[b.Name]; ok {
		return err
	}
	copied := *b
	r.books[b.ID] = &copied
	return nil
}

func (r *fakeBookRepo) GetByID(ctx context.Context, id string) (*model.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookRepo) List(ctx context.Context) ([]model.Book, error) {
	out := make([]model.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookRepo) UpdateFields(ctx context.Context, id string, name, shortIntro, description, image *string) (*model.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	if name != nil {
		b.Name = *name
	}
	if shortIntro != nil {
		b.ShortIntro = *shortIntro
	}
	if description != nil {
		b.Description = *description
	}
	if image != nil {
		b.Image = image
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookRepo) SetTotalCopies(ctx context.Context, id string, newTotal int) (*model.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	borrowed := b.TotalCopies - b.AvailableCopies
	b.TotalCopies = newTotal
	b.AvailableCopies = max(0, newTotal-borrowed)
	copied := *b
	return &copied, nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) Count(ctx context.Context) (int, error) {
	return len(r.books), nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.objects[key] = data
	return key, nil
}

func (s *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, assert.AnError
	}
	return data, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func createRequest(name string, copies int) model.CreateBookRequest {
	return model.CreateBookRequest{
		Name:        name,
		ShortIntro:  "A short intro",
		Description: "A longer description",
		TotalCopies: copies,
	}
}

// ========================================
// CRUD
// ========================================

func TestCreateBook_DefaultsToOneCopy(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewBookService(repo, newFakeStorage())

	book, err := svc.CreateBook(context.Background(), createRequest("Sapiens", 0), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, book.TotalCopies)
	assert.Equal(t, 1, book.AvailableCopies)
	assert.Nil(t, book.Image)
}

func TestCreateBook_WithCopiesAndCover(t *testing.T) {
	repo := newFakeBookRepo()
	store := newFakeStorage()
	svc := NewBookService(repo, store)

	book, err := svc.CreateBook(context.Background(),
		createRequest("Sapiens", 5),
		&ImageUpload{Data: []byte("png-bytes"), ContentType: "image/png", Filename: "cover.png"},
	)
	require.NoError(t, err)

	assert.Equal(t, 5, book.TotalCopies)
	assert.Equal(t, 5, book.AvailableCopies)
	require.NotNil(t, book.Image)
	assert.Equal(t, "books/"+book.ID+"/cover.png", *book.Image)
	assert.Contains(t, store.objects, *book.Image)
}

func TestCreateBook_MissingName(t *testing.T) {
	svc := NewBookService(newFakeBookRepo(), newFakeStorage())

	_, err := svc.CreateBook(context.Background(), model.CreateBookRequest{}, nil)
	assert.Error(t, err)
}

func TestUpdateBook_RejectsNonPositiveCopies(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewBookService(repo, newFakeStorage())

	zero := 0
	_, err := svc.UpdateBook(context.Background(), "b1", model.UpdateBookRequest{TotalCopies: &zero}, nil)
	assert.ErrorIs(t, err, model.ErrInvalidCopies)
}

func TestUpdateBook_ShrinkPreservesOnLoanCount(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewBookService(repo, newFakeStorage())

	repo.books["b1"] = &model.Book{
		ID: "b1", Name: "Sapiens",
		TotalCopies: 5, AvailableCopies: 3, // 2 on loan
		CreatedAt: time.Now(),
	}

	four := 4
	book, err := svc.UpdateBook(context.Background(), "b1", model.UpdateBookRequest{TotalCopies: &four}, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, book.TotalCopies)
	assert.Equal(t, 2, book.AvailableCopies)
}

func TestUpdateBook_UnknownBook(t *testing.T) {
	svc := NewBookService(newFakeBookRepo(), newFakeStorage())

	name := "New Name"
	_, err := svc.UpdateBook(context.Background(), "nope", model.UpdateBookRequest{Name: &name}, nil)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

// ========================================
// BULK IMPORT
// ========================================

func importWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestImportBooks(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewBookService(repo, newFakeStorage())

	data := importWorkbook(t, [][]interface{}{
		{"Name", "Short Intro", "Description", "Copies"},
		{"Sapiens", "A brief history", "Long text", "3"},
		{"", "orphan row", "", "2"},
		{"Ghost Wars", "", "", "not-a-number"},
		{"1984", "", ""},
	})

	summary, err := svc.ImportBooks(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "row 3")

	byName := make(map[string]*model.Book)
	for _, b := range repo.books {
		byName[b.Name] = b
	}
	require.Contains(t, byName, "Sapiens")
	assert.Equal(t, 3, byName["Sapiens"].TotalCopies)
	assert.Equal(t, 3, byName["Sapiens"].AvailableCopies)

	// Bad and missing copies cells both fall back to one copy.
	assert.Equal(t, 1, byName["Ghost Wars"].TotalCopies)
	assert.Equal(t, 1, byName["1984"].TotalCopies)
}

func TestImportBooks_RowFailureDoesNotAbort(t *testing.T) {
	repo := newFakeBookRepo()
	repo.failIDs["Cursed"] = assert.AnError
	svc := NewBookService(repo, newFakeStorage())

	data := importWorkbook(t, [][]interface{}{
		{"Name"},
		{"Cursed"},
		{"Fine"},
	})

	summary, err := svc.ImportBooks(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "row 2")
}

func TestImportBooks_NotAWorkbook(t *testing.T) {
	svc := NewBookService(newFakeBookRepo(), newFakeStorage())

	_, err := svc.ImportBooks(context.Background(), []byte("definitely not xlsx"))
	assert.Error(t, err)
}
