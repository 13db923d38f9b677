package service

import (
	"context"
	"time"

	"gcmn-library-backend/internal/domains/donation/model"
	"gcmn-library-backend/internal/domains/donation/repository"
	"gcmn-library-backend/internal/shared/utils"
)

type ServiceInterface interface {
	CreateDonation(ctx context.Context, req model.CreateDonationRequest) (*model.Donation, error)
	ListDonations(ctx context.Context) ([]model.Donation, error)
	DeleteDonation(ctx context.Context, id string) error
}

type donationService struct {
	repo repository.RepositoryInterface
}

func NewDonationService(repo repository.RepositoryInterface) ServiceInterface {
	return &donationService{repo: repo}
}

func (s *donationService) CreateDonation(ctx context.Context, req model.CreateDonationRequest) (*model.Donation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	amount, err := req.ParseAmount()
	if err != nil {
		return nil, err
	}

	donation := &model.Donation{
		ID:        utils.GenerateHexID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     optional(req.Phone),
		Amount:    amount,
		Method:    req.Method,
		Note:      optional(req.Note),
		Status:    model.StatusReceived,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, err
	}
	return donation, nil
}

func (s *donationService) ListDonations(ctx context.Context) ([]model.Donation, error) {
	return s.repo.List(ctx)
}

func (s *donationService) DeleteDonation(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, utils.CleanID(id))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
