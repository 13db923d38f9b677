package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type BorrowRequest struct {
	BookID string `json:"bookId"`
}

func (r BorrowRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required.Error("book id is required")),
	)
}

// UpdateStatusRequest is the admin override. The same idempotence rule
// applies as on the return endpoint: a record already returned cannot be
// returned again.
type UpdateStatusRequest struct {
	Status     BorrowStatus `json:"status"`
	ReturnDate *time.Time   `json:"returnDate"`
}

func (r UpdateStatusRequest) Validate() error {
	if !r.Status.IsValid() {
		return ErrInvalidBorrowStatus
	}
	return nil
}
