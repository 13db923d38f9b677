package handlers

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	borrowService "gcmn-library-backend/internal/domains/borrow/service"
	"gcmn-library-backend/internal/infrastructure/email"
	"gcmn-library-backend/pkg/logger"
)

// OverdueHandler runs the daily overdue scan: every active loan past its
// due date gets a reminder email. One bad address does not stop the rest.
type OverdueHandler struct {
	borrows borrowService.ServiceInterface
	email   email.EmailService
}

func NewOverdueHandler(borrows borrowService.ServiceInterface, emailService email.EmailService) *OverdueHandler {
	return &OverdueHandler{borrows: borrows, email: emailService}
}

func (h *OverdueHandler) HandleOverdueScan(ctx context.Context, t *asynq.Task) error {
	now := time.Now()

	records, err := h.borrows.ListOverdue(ctx, now)
	if err != nil {
		return err
	}

	sent := 0
	for _, rec := range records {
		err := h.email.SendOverdueReminder(ctx, email.OverdueReminderData{
			Email:     rec.BorrowerEmail,
			Name:      rec.BorrowerName,
			BookTitle: rec.BookName,
			DueDate:   rec.DueDate.Format("2006-01-02"),
		})
		if err != nil {
			logger.Error("send overdue reminder", err)
			continue
		}
		sent++
	}

	logger.Info("Overdue scan finished", map[string]interface{}{
		"overdue": len(records),
		"sent":    sent,
	})
	return nil
}
