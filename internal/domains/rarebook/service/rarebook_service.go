package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"gcmn-library-backend/internal/domains/rarebook/model"
	"gcmn-library-backend/internal/domains/rarebook/repository"
	"gcmn-library-backend/internal/infrastructure/storage"
	"gcmn-library-backend/internal/shared/utils"
	"gcmn-library-backend/pkg/token"
)

type ServiceInterface interface {
	CreateRareBook(ctx context.Context, req model.CreateRareBookRequest, pdf []byte, cover *CoverUpload) (*model.RareBook, error)
	ListRareBooks(ctx context.Context) ([]model.RareBook, error)
	ListActiveRareBooks(ctx context.Context) ([]model.RareBook, error)
	UpdateRareBook(ctx context.Context, id string, req model.UpdateRareBookRequest, pdf []byte, cover *CoverUpload) (*model.RareBook, error)
	DeleteRareBook(ctx context.Context, id string) error

	// GrantStream mints a short-lived token for an active book's PDF.
	GrantStream(ctx context.Context, id string) (*model.StreamGrant, error)

	// Stream validates a token and returns the PDF bytes.
	Stream(ctx context.Context, tokenString string) (*model.RareBook, []byte, error)
}

type CoverUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

type rareBookService struct {
	repo    repository.RepositoryInterface
	storage storage.ObjectStorage
	tokens  *token.Manager
	ttl     time.Duration
}

func NewRareBookService(repo repository.RepositoryInterface, store storage.ObjectStorage, tokens *token.Manager, ttl time.Duration) ServiceInterface {
	return &rareBookService{repo: repo, storage: store, tokens: tokens, ttl: ttl}
}

// ========================================
// CRUD
// ========================================

func (s *rareBookService) CreateRareBook(ctx context.Context, req model.CreateRareBookRequest, pdf []byte, cover *CoverUpload) (*model.RareBook, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := utils.GenerateHexID()

	fileKey := fmt.Sprintf("rare-books/%s/document.pdf", id)
	if _, err := s.storage.Upload(ctx, fileKey, pdf, "application/pdf"); err != nil {
		return nil, err
	}

	book := &model.RareBook{
		ID:        id,
		Title:     req.Title,
		Author:    req.Author,
		Year:      req.Year,
		About:     req.About,
		FileKey:   fileKey,
		Active:    true,
		CreatedAt: time.Now(),
	}

	if cover != nil {
		key, err := s.uploadCover(ctx, id, cover)
		if err != nil {
			return nil, err
		}
		book.CoverKey = &key
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *rareBookService) ListRareBooks(ctx context.Context) ([]model.RareBook, error) {
	return s.repo.List(ctx)
}

func (s *rareBookService) ListActiveRareBooks(ctx context.Context) ([]model.RareBook, error) {
	return s.repo.ListActive(ctx)
}

func (s *rareBookService) UpdateRareBook(ctx context.Context, id string, req model.UpdateRareBookRequest, pdf []byte, cover *CoverUpload) (*model.RareBook, error) {
	id = utils.CleanID(id)

	var fileKey, coverKey *string
	if len(pdf) > 0 {
		key := fmt.Sprintf("rare-books/%s/document.pdf", id)
		if _, err := s.storage.Upload(ctx, key, pdf, "application/pdf"); err != nil {
			return nil, err
		}
		fileKey = &key
	}
	if cover != nil {
		key, err := s.uploadCover(ctx, id, cover)
		if err != nil {
			return nil, err
		}
		coverKey = &key
	}

	return s.repo.Update(ctx, id, req.Title, req.Author, req.About, req.Year, req.Active, coverKey, fileKey)
}

func (s *rareBookService) DeleteRareBook(ctx context.Context, id string) error {
	id = utils.CleanID(id)

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.storage.Delete(ctx, book.FileKey)
	if book.CoverKey != nil {
		_ = s.storage.Delete(ctx, *book.CoverKey)
	}
	return nil
}

func (s *rareBookService) uploadCover(ctx context.Context, id string, cover *CoverUpload) (string, error) {
	ext := path.Ext(cover.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("rare-books/%s/cover%s", id, ext)
	return s.storage.Upload(ctx, key, cover.Data, cover.ContentType)
}

// ========================================
// STREAMING
// ========================================

func (s *rareBookService) GrantStream(ctx context.Context, id string) (*model.StreamGrant, error) {
	book, err := s.repo.GetByID(ctx, utils.CleanID(id))
	if err != nil {
		return nil, err
	}
	if !book.Active {
		return nil, model.ErrRareBookInactive
	}

	tok, err := s.tokens.GenerateStreamToken(book.ID, model.StreamKind)
	if err != nil {
		return nil, fmt.Errorf("mint stream token: %w", err)
	}
	return &model.StreamGrant{
		Token:     tok,
		ExpiresIn: int(s.ttl.Seconds()),
	}, nil
}

func (s *rareBookService) Stream(ctx context.Context, tokenString string) (*model.RareBook, []byte, error) {
	claims, err := s.tokens.ValidateStreamToken(tokenString)
	if err != nil || claims.Kind != model.StreamKind {
		return nil, nil, model.ErrInvalidStream
	}

	book, err := s.repo.GetByID(ctx, claims.DocumentID)
	if err != nil {
		return nil, nil, err
	}
	if !book.Active {
		return nil, nil, model.ErrRareBookInactive
	}

	data, err := s.storage.Download(ctx, book.FileKey)
	if err != nil {
		return nil, nil, err
	}
	return book, data, nil
}
