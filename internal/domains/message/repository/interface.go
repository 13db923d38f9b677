package repository

import (
	"context"

	"gcmn-library-backend/internal/domains/message/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, msg *model.Message) error
	List(ctx context.Context) ([]model.Message, error)
	MarkSeen(ctx context.Context, id string) (*model.Message, error)
	Delete(ctx context.Context, id string) error
	CountUnseen(ctx context.Context) (int, error)
}
