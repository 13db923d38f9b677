package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gcmn-library-backend/internal/domains/message/model"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{db: db}
}

const messageColumns = `id, name, email, subject, body, seen, created_at`

func scanMessage(row pgx.Row) (*model.Message, error) {
	var m model.Message
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Seen, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}
	return &m, nil
}

func (r *postgresRepository) Create(ctx context.Context, msg *model.Message) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO messages (id, name, email, subject, body, seen, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Body, msg.Seen, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Message, error) {
	rows, err := r.db.Query(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]model.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

func (r *postgresRepository) MarkSeen(ctx context.Context, id string) (*model.Message, error) {
	return scanMessage(r.db.QueryRow(ctx, `
		UPDATE messages SET seen = TRUE WHERE id = $1
		RETURNING `+messageColumns, id))
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMessageNotFound
	}
	return nil
}

func (r *postgresRepository) CountUnseen(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE seen = FALSE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unseen messages: %w", err)
	}
	return n, nil
}
