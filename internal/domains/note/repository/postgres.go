package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gcmn-library-backend/internal/domains/note/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, id string) (*model.Note, error)
	List(ctx context.Context) ([]model.Note, error)
	ListActive(ctx context.Context, filter model.NoteFilter) ([]model.Note, error)
	Update(ctx context.Context, id string, title, subject, class *string, active *bool, fileKey *string) (*model.Note, error)
	Delete(ctx context.Context, id string) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{db: db}
}

const noteColumns = `id, title, subject, class, file_key, active, created_at, updated_at`

func scanNote(row pgx.Row) (*model.Note, error) {
	var n model.Note
	err := row.Scan(&n.ID, &n.Title, &n.Subject, &n.Class, &n.FileKey, &n.Active, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &n, nil
}

func (r *postgresRepository) Create(ctx context.Context, note *model.Note) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notes (id, title, subject, class, file_key, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		note.ID, note.Title, note.Subject, note.Class, note.FileKey, note.Active, note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*model.Note, error) {
	return scanNote(r.db.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id))
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Note, error) {
	return r.queryMany(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY created_at DESC`)
}

func (r *postgresRepository) ListActive(ctx context.Context, filter model.NoteFilter) ([]model.Note, error) {
	clauses := []string{"active = TRUE"}
	args := []any{}

	if filter.Class != "" {
		args = append(args, filter.Class)
		clauses = append(clauses, fmt.Sprintf("class = $%d", len(args)))
	}
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		clauses = append(clauses, fmt.Sprintf("subject = $%d", len(args)))
	}

	query := `SELECT ` + noteColumns + ` FROM notes WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY created_at DESC`
	return r.queryMany(ctx, query, args...)
}

func (r *postgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]model.Note, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, id string, title, subject, class *string, active *bool, fileKey *string) (*model.Note, error) {
	query := `
		UPDATE notes SET
			title      = COALESCE($2, title),
			subject    = COALESCE($3, subject),
			class      = COALESCE($4, class),
			active     = COALESCE($5, active),
			file_key   = COALESCE($6, file_key),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + noteColumns

	return scanNote(r.db.QueryRow(ctx, query, id, title, subject, class, active, fileKey))
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}
