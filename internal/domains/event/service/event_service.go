package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"gcmn-library-backend/internal/domains/event/model"
	"gcmn-library-backend/internal/domains/event/repository"
	"gcmn-library-backend/internal/infrastructure/storage"
	"gcmn-library-backend/internal/shared/utils"
)

type ServiceInterface interface {
	// CreateEvent stores the gallery images and the event row.
	CreateEvent(ctx context.Context, req model.CreateEventRequest, images []ImageUpload) (*model.Event, error)

	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)

	// UpdateEvent applies partial edits; newly uploaded images replace the
	// whole gallery.
	UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest, images []ImageUpload) (*model.Event, error)

	DeleteEvent(ctx context.Context, id string) error
}

type ImageUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

type eventService struct {
	repo    repository.RepositoryInterface
	storage storage.ObjectStorage
}

func NewEventService(repo repository.RepositoryInterface, store storage.ObjectStorage) ServiceInterface {
	return &eventService{repo: repo, storage: store}
}

func (s *eventService) CreateEvent(ctx context.Context, req model.CreateEventRequest, images []ImageUpload) (*model.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := utils.GenerateHexID()
	keys, err := s.uploadImages(ctx, id, images)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Images:      keys,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.repo.List(ctx)
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return s.repo.GetByID(ctx, utils.CleanID(id))
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest, images []ImageUpload) (*model.Event, error) {
	id = utils.CleanID(id)

	var keys []string
	if len(images) > 0 {
		uploaded, err := s.uploadImages(ctx, id, images)
		if err != nil {
			return nil, err
		}
		keys = uploaded
	}

	return s.repo.Update(ctx, id, req.Title, req.Description, req.Date, keys)
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	id = utils.CleanID(id)

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	for _, key := range event.Images {
		_ = s.storage.Delete(ctx, key)
	}
	return nil
}

func (s *eventService) uploadImages(ctx context.Context, eventID string, images []ImageUpload) ([]string, error) {
	keys := make([]string, 0, len(images))
	for i, img := range images {
		ext := path.Ext(img.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := fmt.Sprintf("events/%s/%d%s", eventID, i, ext)
		if _, err := s.storage.Upload(ctx, key, img.Data, img.ContentType); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
