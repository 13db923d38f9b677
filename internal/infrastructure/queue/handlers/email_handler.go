package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"gcmn-library-backend/internal/infrastructure/email"
	"gcmn-library-backend/internal/infrastructure/queue"
	"gcmn-library-backend/pkg/logger"
)

// EmailHandler processes notification tasks from the email queue.
type EmailHandler struct {
	email email.EmailService
}

func NewEmailHandler(emailService email.EmailService) *EmailHandler {
	return &EmailHandler{email: emailService}
}

func (h *EmailHandler) HandleBorrowConfirmation(ctx context.Context, t *asynq.Task) error {
	var p queue.BorrowConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal borrow confirmation payload: %w", err)
	}

	if err := h.email.SendBorrowConfirmation(ctx, email.BorrowConfirmationData{
		Email:     p.Email,
		Name:      p.Name,
		BookTitle: p.BookTitle,
		DueDate:   p.DueDate,
	}); err != nil {
		return fmt.Errorf("send borrow confirmation to %s: %w", p.Email, err)
	}

	logger.Info("Borrow confirmation sent", map[string]interface{}{"email": p.Email})
	return nil
}

func (h *EmailHandler) HandleCardApproved(ctx context.Context, t *asynq.Task) error {
	var p queue.CardApprovedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal card approved payload: %w", err)
	}

	if err := h.email.SendCardApproved(ctx, email.CardApprovedData{
		Email:      p.Email,
		Name:       p.Name,
		CardNumber: p.CardNumber,
	}); err != nil {
		return fmt.Errorf("send card approved to %s: %w", p.Email, err)
	}

	logger.Info("Card approval notice sent", map[string]interface{}{"email": p.Email})
	return nil
}
