package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gcmn-library-backend/internal/domains/rarebook/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, book *model.RareBook) error
	GetByID(ctx context.Context, id string) (*model.RareBook, error)
	List(ctx context.Context) ([]model.RareBook, error)
	ListActive(ctx context.Context) ([]model.RareBook, error)
	Update(ctx context.Context, id string, title, author, about *string, year *int, active *bool, coverKey, fileKey *string) (*model.RareBook, error)
	Delete(ctx context.Context, id string) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{db: db}
}

const rareBookColumns = `id, title, author, year, about, cover_key, file_key, active, created_at, updated_at`

func scanRareBook(row pgx.Row) (*model.RareBook, error) {
	var b model.RareBook
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.About, &b.CoverKey, &b.FileKey, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrRareBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan rare book: %w", err)
	}
	return &b, nil
}

func (r *postgresRepository) Create(ctx context.Context, book *model.RareBook) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO rare_books (id, title, author, year, about, cover_key, file_key, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		book.ID, book.Title, book.Author, book.Year, book.About, book.CoverKey, book.FileKey, book.Active, book.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rare book: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*model.RareBook, error) {
	return scanRareBook(r.db.QueryRow(ctx, `SELECT `+rareBookColumns+` FROM rare_books WHERE id = $1`, id))
}

func (r *postgresRepository) List(ctx context.Context) ([]model.RareBook, error) {
	return r.queryMany(ctx, `SELECT `+rareBookColumns+` FROM rare_books ORDER BY created_at DESC`)
}

func (r *postgresRepository) ListActive(ctx context.Context) ([]model.RareBook, error) {
	return r.queryMany(ctx, `SELECT `+rareBookColumns+` FROM rare_books WHERE active = TRUE ORDER BY created_at DESC`)
}

func (r *postgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]model.RareBook, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rare books: %w", err)
	}
	defer rows.Close()

	books := make([]model.RareBook, 0)
	for rows.Next() {
		b, err := scanRareBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, id string, title, author, about *string, year *int, active *bool, coverKey, fileKey *string) (*model.RareBook, error) {
	query := `
		UPDATE rare_books SET
			title      = COALESCE($2, title),
			author     = COALESCE($3, author),
			about      = COALESCE($4, about),
			year       = COALESCE($5, year),
			active     = COALESCE($6, active),
			cover_key  = COALESCE($7, cover_key),
			file_key   = COALESCE($8, file_key),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + rareBookColumns

	return scanRareBook(r.db.QueryRow(ctx, query, id, title, author, about, year, active, coverKey, fileKey))
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rare_books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rare book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRareBookNotFound
	}
	return nil
}
