package service

import (
	"context"

	"gcmn-library-backend/internal/domains/book/model"
)

type ServiceInterface interface {
	// CreateBook adds a catalog entry. Available copies start equal to the
	// total; a missing total defaults to a single copy.
	CreateBook(ctx context.Context, req model.CreateBookRequest, image *ImageUpload) (*model.Book, error)

	GetBook(ctx context.Context, id string) (*model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)

	// UpdateBook applies partial edits. When TotalCopies is present the
	// available count is recomputed so the on-loan count stays unchanged.
	UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest, image *ImageUpload) (*model.Book, error)

	DeleteBook(ctx context.Context, id string) error

	// ImportBooks ingests an XLSX sheet with columns
	// name | short intro | description | total copies.
	ImportBooks(ctx context.Context, data []byte) (*model.ImportSummary, error)
}

// ImageUpload carries a cover image received as multipart form data.
type ImageUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}
