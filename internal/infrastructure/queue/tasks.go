package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names. Grouped by queue concern.
const (
	TypeBorrowConfirmationEmail = "email:borrow_confirmation"
	TypeCardApprovedEmail       = "email:card_approved"
	TypeOverdueScan             = "loan:overdue_scan"
)

type BorrowConfirmationPayload struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	BookTitle string `json:"book_title"`
	DueDate   string `json:"due_date"`
}

type CardApprovedPayload struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	CardNumber string `json:"card_number"`
}

func NewBorrowConfirmationTask(p BorrowConfirmationPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal borrow confirmation payload: %w", err)
	}
	return asynq.NewTask(TypeBorrowConfirmationEmail, payload), nil
}

func NewCardApprovedTask(p CardApprovedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal card approved payload: %w", err)
	}
	return asynq.NewTask(TypeCardApprovedEmail, payload), nil
}

func NewOverdueScanTask() *asynq.Task {
	return asynq.NewTask(TypeOverdueScan, nil)
}
