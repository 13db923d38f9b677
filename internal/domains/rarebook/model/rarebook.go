package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// StreamKind tags stream tokens minted for rare-book PDFs.
const StreamKind = "rare_book"

// RareBook is a digitized archive item. The PDF is never linked
// directly: readers get a short-lived stream token and fetch the
// document through the stream endpoint.
type RareBook struct {
	ID        string     `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Author    string     `json:"author" db:"author"`
	Year      *int       `json:"year,omitempty" db:"year"`
	About     string     `json:"about" db:"about"`
	CoverKey  *string    `json:"coverKey,omitempty" db:"cover_key"`
	FileKey   string     `json:"-" db:"file_key"`
	Active    bool       `json:"active" db:"active"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

var (
	ErrRareBookNotFound = errors.New("rare book not found")
	ErrRareBookInactive = errors.New("rare book is not available")
	ErrInvalidStream    = errors.New("invalid or expired stream token")
)

type CreateRareBookRequest struct {
	Title  string `form:"title" json:"title"`
	Author string `form:"author" json:"author"`
	Year   *int   `form:"year" json:"year"`
	About  string `form:"about" json:"about"`
}

func (r CreateRareBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required")),
		validation.Field(&r.Author, validation.Required.Error("author is required")),
	)
}

type UpdateRareBookRequest struct {
	Title  *string `form:"title" json:"title"`
	Author *string `form:"author" json:"author"`
	Year   *int    `form:"year" json:"year"`
	About  *string `form:"about" json:"about"`
	Active *bool   `form:"active" json:"active"`
}

// StreamGrant is the response of the token-minting endpoint.
type StreamGrant struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"` // seconds
}
