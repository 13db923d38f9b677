package model

import (
	"errors"
	"time"
)

type BorrowStatus string

const (
	StatusBorrowed BorrowStatus = "borrowed"
	StatusReturned BorrowStatus = "returned"
)

func (s BorrowStatus) IsValid() bool {
	return s == StatusBorrowed || s == StatusReturned
}

// LoanPeriod is how long a copy may be kept out.
const LoanPeriod = 14 * 24 * time.Hour

// BorrowRecord is one loan transaction. Borrower contact fields are
// snapshots taken at borrow time; they are never re-joined against the
// live account or application.
type BorrowRecord struct {
	ID            string       `json:"id" db:"id"`
	BookID        string       `json:"bookId" db:"book_id"`
	BookName      string       `json:"bookName" db:"book_name"`
	BorrowerID    string       `json:"borrowerId" db:"borrower_id"`
	BorrowerName  string       `json:"borrowerName" db:"borrower_name"`
	BorrowerPhone *string      `json:"borrowerPhone,omitempty" db:"borrower_phone"`
	BorrowerEmail string       `json:"borrowerEmail" db:"borrower_email"`
	CardNumber    *string      `json:"cardNumber,omitempty" db:"card_number"`
	BorrowDate    time.Time    `json:"borrowDate" db:"borrow_date"`
	DueDate       time.Time    `json:"dueDate" db:"due_date"`
	ReturnDate    *time.Time   `json:"returnDate,omitempty" db:"return_date"`
	Status        BorrowStatus `json:"status" db:"status"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
}

// Overdue reports whether an active loan is past due at the given time.
func (r *BorrowRecord) Overdue(now time.Time) bool {
	return r.Status == StatusBorrowed && now.After(r.DueDate)
}

var (
	ErrBorrowNotFound      = errors.New("borrow record not found")
	ErrAlreadyReturned     = errors.New("book has already been returned")
	ErrNoCopiesAvailable   = errors.New("no copies of this book are available")
	ErrInvalidBorrowStatus = errors.New("invalid borrow status")
)
