package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gcmn-library-backend/internal/domains/book/model"
	"gcmn-library-backend/internal/domains/book/repository"
	"gcmn-library-backend/internal/infrastructure/storage"
	"gcmn-library-backend/internal/shared/utils"
	"gcmn-library-backend/pkg/logger"
)

type bookService struct {
	repo    repository.RepositoryInterface
	storage storage.ObjectStorage
}

func NewBookService(repo repository.RepositoryInterface, store storage.ObjectStorage) ServiceInterface {
	return &bookService{repo: repo, storage: store}
}

// ========================================
// CRUD
// ========================================

func (s *bookService) CreateBook(ctx context.Context, req model.CreateBookRequest, image *ImageUpload) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	total := req.TotalCopies
	if total <= 0 {
		total = 1
	}

	book := &model.Book{
		ID:              utils.GenerateHexID(),
		Name:            req.Name,
		ShortIntro:      req.ShortIntro,
		Description:     req.Description,
		TotalCopies:     total,
		AvailableCopies: total,
		CreatedAt:       time.Now(),
	}

	if image != nil {
		key, err := s.uploadCover(ctx, book.ID, image)
		if err != nil {
			return nil, err
		}
		book.Image = &key
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *bookService) GetBook(ctx context.Context, id string) (*model.Book, error) {
	return s.repo.GetByID(ctx, utils.CleanID(id))
}

func (s *bookService) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.List(ctx)
}

func (s *bookService) UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest, image *ImageUpload) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id = utils.CleanID(id)

	var imageKey *string
	if image != nil {
		key, err := s.uploadCover(ctx, id, image)
		if err != nil {
			return nil, err
		}
		imageKey = &key
	}

	book, err := s.repo.UpdateFields(ctx, id, req.Name, req.ShortIntro, req.Description, imageKey)
	if err != nil {
		return nil, err
	}

	if req.TotalCopies != nil {
		book, err = s.repo.SetTotalCopies(ctx, id, *req.TotalCopies)
		if err != nil {
			return nil, err
		}
	}
	return book, nil
}

func (s *bookService) DeleteBook(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, utils.CleanID(id))
}

func (s *bookService) uploadCover(ctx context.Context, bookID string, image *ImageUpload) (string, error) {
	ext := path.Ext(image.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("books/%s/cover%s", bookID, ext)
	return s.storage.Upload(ctx, key, image.Data, image.ContentType)
}

// ========================================
// BULK IMPORT
// ========================================

// ImportBooks reads the first sheet of an XLSX workbook. Row 1 is a
// header. Rows missing a name are skipped; a bad copies cell falls back
// to a single copy.
func (s *bookService) ImportBooks(ctx context.Context, data []byte) (*model.ImportSummary, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	summary := &model.ImportSummary{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		name := cell(row, 0)
		if name == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: missing book name", i+1))
			continue
		}

		total := 1
		if raw := cell(row, 3); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				total = n
			}
		}

		book := &model.Book{
			ID:              utils.GenerateHexID(),
			Name:            name,
			ShortIntro:      cell(row, 1),
			Description:     cell(row, 2),
			TotalCopies:     total,
			AvailableCopies: total,
			CreatedAt:       time.Now(),
		}

		if err := s.repo.Create(ctx, book); err != nil {
			logger.Error(fmt.Sprintf("import row %d failed", i+1), err)
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		summary.Imported++
	}

	return summary, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
