package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateBookRequest struct {
	Name        string `form:"bookName" json:"bookName"`
	ShortIntro  string `form:"shortIntro" json:"shortIntro"`
	Description string `form:"description" json:"description"`
	TotalCopies int    `form:"totalCopies" json:"totalCopies"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("book name is required")),
		validation.Field(&r.ShortIntro, validation.Required.Error("short intro is required")),
		validation.Field(&r.Description, validation.Required.Error("description is required")),
		validation.Field(&r.TotalCopies, validation.Min(0).Error("total copies cannot be negative")),
	)
}

// UpdateBookRequest carries partial edits. A nil TotalCopies leaves the
// copy counts untouched.
type UpdateBookRequest struct {
	Name        *string `form:"bookName" json:"bookName"`
	ShortIntro  *string `form:"shortIntro" json:"shortIntro"`
	Description *string `form:"description" json:"description"`
	TotalCopies *int    `form:"totalCopies" json:"totalCopies"`
}

func (r UpdateBookRequest) Validate() error {
	if r.TotalCopies != nil && *r.TotalCopies <= 0 {
		return ErrInvalidCopies
	}
	return nil
}

// ImportSummary reports the outcome of an XLSX bulk import.
type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
