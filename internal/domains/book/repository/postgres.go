package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gcmn-library-backend/internal/domains/book/model"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{db: db}
}

const bookColumns = `id, name, short_intro, description, image, total_copies, available_copies, created_at, updated_at`

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID, &b.Name, &b.ShortIntro, &b.Description, &b.Image,
		&b.TotalCopies, &b.AvailableCopies, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan book: %w", err)
	}
	return &b, nil
}

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (id, name, short_intro, description, image, total_copies, available_copies, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		book.ID, book.Name, book.ShortIntro, book.Description, book.Image,
		book.TotalCopies, book.AvailableCopies, book.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	return scanBook(r.db.QueryRow(ctx, query, id))
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

func (r *postgresRepository) UpdateFields(ctx context.Context, id string, name, shortIntro, description, image *string) (*model.Book, error) {
	query := `
		UPDATE books SET
			name         = COALESCE($2, name),
			short_intro  = COALESCE($3, short_intro),
			description  = COALESCE($4, description),
			image        = COALESCE($5, image),
			updated_at   = NOW()
		WHERE id = $1
		RETURNING ` + bookColumns

	return scanBook(r.db.QueryRow(ctx, query, id, name, shortIntro, description, image))
}

// SetTotalCopies keeps the borrowed count stable. The arithmetic happens
// inside the UPDATE so a concurrent borrow or return cannot interleave
// between read and write.
func (r *postgresRepository) SetTotalCopies(ctx context.Context, id string, newTotal int) (*model.Book, error) {
	query := `
		UPDATE books SET
			available_copies = GREATEST(0, $2 - (total_copies - available_copies)),
			total_copies     = $2,
			updated_at       = NOW()
		WHERE id = $1
		RETURNING ` + bookColumns

	return scanBook(r.db.QueryRow(ctx, query, id, newTotal))
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}
