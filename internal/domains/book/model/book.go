package model

import (
	"errors"
	"time"
)

// Book is a lendable catalog entry. The copy-count invariant
// 0 <= AvailableCopies <= TotalCopies holds at rest between operations.
type Book struct {
	ID              string     `json:"id" db:"id"`
	Name            string     `json:"bookName" db:"name"`
	ShortIntro      string     `json:"shortIntro" db:"short_intro"`
	Description     string     `json:"description" db:"description"`
	Image           *string    `json:"bookImage" db:"image"`
	TotalCopies     int        `json:"totalCopies" db:"total_copies"`
	AvailableCopies int        `json:"availableCopies" db:"available_copies"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// BorrowedCount is the number of copies currently on loan.
func (b *Book) BorrowedCount() int {
	return b.TotalCopies - b.AvailableCopies
}

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrInvalidCopies = errors.New("total copies must be a positive number")
)
