package service

import (
	"context"
	"fmt"
	"time"

	"gcmn-library-backend/internal/domains/note/model"
	"gcmn-library-backend/internal/domains/note/repository"
	"gcmn-library-backend/internal/infrastructure/storage"
	"gcmn-library-backend/internal/shared/utils"
)

type ServiceInterface interface {
	// CreateNote stores the PDF and the catalog row. Notes start active.
	CreateNote(ctx context.Context, req model.CreateNoteRequest, pdf []byte) (*model.Note, error)

	ListNotes(ctx context.Context) ([]model.Note, error)
	ListActiveNotes(ctx context.Context, filter model.NoteFilter) ([]model.Note, error)

	UpdateNote(ctx context.Context, id string, req model.UpdateNoteRequest, pdf []byte) (*model.Note, error)

	// DeleteNote removes the row and best-effort removes the stored PDF.
	DeleteNote(ctx context.Context, id string) error

	// DownloadNote returns the PDF bytes for an existing note.
	DownloadNote(ctx context.Context, id string) (*model.Note, []byte, error)
}

type noteService struct {
	repo    repository.RepositoryInterface
	storage storage.ObjectStorage
}

func NewNoteService(repo repository.RepositoryInterface, store storage.ObjectStorage) ServiceInterface {
	return &noteService{repo: repo, storage: store}
}

func (s *noteService) CreateNote(ctx context.Context, req model.CreateNoteRequest, pdf []byte) (*model.Note, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := utils.GenerateHexID()
	key := fmt.Sprintf("notes/%s.pdf", id)
	if _, err := s.storage.Upload(ctx, key, pdf, "application/pdf"); err != nil {
		return nil, err
	}

	note := &model.Note{
		ID:        id,
		Title:     req.Title,
		Subject:   req.Subject,
		Class:     req.Class,
		FileKey:   key,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) ListNotes(ctx context.Context) ([]model.Note, error) {
	return s.repo.List(ctx)
}

func (s *noteService) ListActiveNotes(ctx context.Context, filter model.NoteFilter) ([]model.Note, error) {
	return s.repo.ListActive(ctx, filter)
}

func (s *noteService) UpdateNote(ctx context.Context, id string, req model.UpdateNoteRequest, pdf []byte) (*model.Note, error) {
	id = utils.CleanID(id)

	var fileKey *string
	if len(pdf) > 0 {
		key := fmt.Sprintf("notes/%s.pdf", id)
		if _, err := s.storage.Upload(ctx, key, pdf, "application/pdf"); err != nil {
			return nil, err
		}
		fileKey = &key
	}

	return s.repo.Update(ctx, id, req.Title, req.Subject, req.Class, req.Active, fileKey)
}

func (s *noteService) DeleteNote(ctx context.Context, id string) error {
	id = utils.CleanID(id)

	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Orphaned objects are harmless, so a failed storage delete does not
	// undo the row delete.
	_ = s.storage.Delete(ctx, note.FileKey)
	return nil
}

func (s *noteService) DownloadNote(ctx context.Context, id string) (*model.Note, []byte, error) {
	note, err := s.repo.GetByID(ctx, utils.CleanID(id))
	if err != nil {
		return nil, nil, err
	}
	data, err := s.storage.Download(ctx, note.FileKey)
	if err != nil {
		return nil, nil, err
	}
	return note, data, nil
}
