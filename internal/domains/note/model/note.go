package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Note is lecture material published for students. The PDF lives in
// object storage; FileKey is its object key.
type Note struct {
	ID        string     `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Subject   string     `json:"subject" db:"subject"`
	Class     string     `json:"class" db:"class"`
	FileKey   string     `json:"fileKey" db:"file_key"`
	Active    bool       `json:"active" db:"active"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

var ErrNoteNotFound = errors.New("note not found")

type CreateNoteRequest struct {
	Title   string `form:"title" json:"title"`
	Subject string `form:"subject" json:"subject"`
	Class   string `form:"class" json:"class"`
}

func (r CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required")),
		validation.Field(&r.Subject, validation.Required.Error("subject is required")),
		validation.Field(&r.Class, validation.Required.Error("class is required")),
	)
}

type UpdateNoteRequest struct {
	Title   *string `form:"title" json:"title"`
	Subject *string `form:"subject" json:"subject"`
	Class   *string `form:"class" json:"class"`
	Active  *bool   `form:"active" json:"active"`
}

// NoteFilter narrows the public listing. Empty fields match everything.
type NoteFilter struct {
	Class   string
	Subject string
}
