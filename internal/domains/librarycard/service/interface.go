package service

import (
	"context"

	"gcmn-library-backend/internal/domains/librarycard/model"
)

type ServiceInterface interface {
	// SubmitApplication validates the form, derives the card number and
	// student id, and persists the application as pending.
	SubmitApplication(ctx context.Context, userID *string, req model.SubmitApplicationRequest) (*model.Application, error)

	// SetStatus transitions an application. Approval creates the Student
	// projection exactly once.
	SetStatus(ctx context.Context, id string, req model.SetStatusRequest) (*model.Application, error)

	GetApplication(ctx context.Context, id string) (*model.Application, error)
	GetByCardNumber(ctx context.Context, cardNumber string) (*model.Application, error)
	ListApplications(ctx context.Context) ([]model.Application, error)
	ListApplicationsByUser(ctx context.Context, userID string) ([]model.Application, error)
	DeleteApplication(ctx context.Context, id string) error
}
