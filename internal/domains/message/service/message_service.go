package service

import (
	"context"
	"time"

	"gcmn-library-backend/internal/domains/message/model"
	"gcmn-library-backend/internal/domains/message/repository"
	"gcmn-library-backend/internal/shared/utils"
)

type ServiceInterface interface {
	CreateMessage(ctx context.Context, req model.CreateMessageRequest) (*model.Message, error)
	ListMessages(ctx context.Context) ([]model.Message, error)
	MarkSeen(ctx context.Context, id string) (*model.Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

type messageService struct {
	repo repository.RepositoryInterface
}

func NewMessageService(repo repository.RepositoryInterface) ServiceInterface {
	return &messageService{repo: repo}
}

func (s *messageService) CreateMessage(ctx context.Context, req model.CreateMessageRequest) (*model.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	msg := &model.Message{
		ID:        utils.GenerateHexID(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Body:      req.Message,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *messageService) ListMessages(ctx context.Context) ([]model.Message, error) {
	return s.repo.List(ctx)
}

func (s *messageService) MarkSeen(ctx context.Context, id string) (*model.Message, error) {
	return s.repo.MarkSeen(ctx, utils.CleanID(id))
}

func (s *messageService) DeleteMessage(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, utils.CleanID(id))
}
