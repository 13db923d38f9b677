package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	bookModel "gcmn-library-backend/internal/domains/book/model"
	"gcmn-library-backend/internal/domains/borrow/model"
	"gcmn-library-backend/pkg/database"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{db: db}
}

const borrowColumns = `id, book_id, book_name, borrower_id, borrower_name, borrower_phone,
	borrower_email, card_number, borrow_date, due_date, return_date, status, created_at`

func scanBorrow(row pgx.Row) (*model.BorrowRecord, error) {
	var r model.BorrowRecord
	err := row.Scan(
		&r.ID, &r.BookID, &r.BookName, &r.BorrowerID, &r.BorrowerName, &r.BorrowerPhone,
		&r.BorrowerEmail, &r.CardNumber, &r.BorrowDate, &r.DueDate, &r.ReturnDate,
		&r.Status, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBorrowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan borrow record: %w", err)
	}
	return &r, nil
}

// CreateWithDecrement takes the copy atomically: the conditional UPDATE
// only matches while a copy is free, so two concurrent borrows of the
// last copy cannot both succeed.
func (r *postgresRepository) CreateWithDecrement(ctx context.Context, record *model.BorrowRecord) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE books
			SET available_copies = GREATEST(0, available_copies - 1), updated_at = NOW()
			WHERE id = $1 AND available_copies > 0`,
			record.BookID,
		)
		if err != nil {
			return fmt.Errorf("decrement copies: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, record.BookID).Scan(&exists); err != nil {
				return fmt.Errorf("check book: %w", err)
			}
			if !exists {
				return bookModel.ErrBookNotFound
			}
			return model.ErrNoCopiesAvailable
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO borrow_records (id, book_id, book_name, borrower_id, borrower_name,
				borrower_phone, borrower_email, card_number, borrow_date, due_date, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			record.ID, record.BookID, record.BookName, record.BorrowerID, record.BorrowerName,
			record.BorrowerPhone, record.BorrowerEmail, record.CardNumber,
			record.BorrowDate, record.DueDate, record.Status, record.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert borrow record: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*model.BorrowRecord, error) {
	query := `SELECT ` + borrowColumns + ` FROM borrow_records WHERE id = $1`
	return scanBorrow(r.db.QueryRow(ctx, query, id))
}

func (r *postgresRepository) List(ctx context.Context) ([]model.BorrowRecord, error) {
	query := `SELECT ` + borrowColumns + ` FROM borrow_records ORDER BY borrow_date DESC`
	return r.queryMany(ctx, query)
}

func (r *postgresRepository) ListByBorrower(ctx context.Context, borrowerID string) ([]model.BorrowRecord, error) {
	query := `SELECT ` + borrowColumns + ` FROM borrow_records WHERE borrower_id = $1 ORDER BY borrow_date DESC`
	return r.queryMany(ctx, query, borrowerID)
}

func (r *postgresRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]model.BorrowRecord, error) {
	query := `SELECT ` + borrowColumns + ` FROM borrow_records WHERE status = 'borrowed' AND due_date < $1 ORDER BY due_date ASC`
	return r.queryMany(ctx, query, asOf)
}

func (r *postgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]model.BorrowRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query borrow records: %w", err)
	}
	defer rows.Close()

	records := make([]model.BorrowRecord, 0)
	for rows.Next() {
		rec, err := scanBorrow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// UpdateStatus locks the record row so the copy-count adjustment is
// derived from the actual transition, not from whatever the caller
// believed the current status was.
func (r *postgresRepository) UpdateStatus(ctx context.Context, id string, status model.BorrowStatus, returnDate *time.Time) (*model.BorrowRecord, error) {
	return database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (*model.BorrowRecord, error) {
		current, err := scanBorrow(tx.QueryRow(ctx,
			`SELECT `+borrowColumns+` FROM borrow_records WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return nil, err
		}

		switch {
		case current.Status == model.StatusReturned && status == model.StatusReturned:
			return nil, model.ErrAlreadyReturned

		case current.Status == model.StatusBorrowed && status == model.StatusReturned:
			when := time.Now()
			if returnDate != nil {
				when = *returnDate
			}
			_, err = tx.Exec(ctx, `
				UPDATE books
				SET available_copies = LEAST(total_copies, available_copies + 1), updated_at = NOW()
				WHERE id = $1`,
				current.BookID,
			)
			if err != nil {
				return nil, fmt.Errorf("increment copies: %w", err)
			}
			return scanBorrow(tx.QueryRow(ctx, `
				UPDATE borrow_records SET status = $2, return_date = $3 WHERE id = $1
				RETURNING `+borrowColumns,
				id, status, when,
			))

		case current.Status == model.StatusReturned && status == model.StatusBorrowed:
			// Admin re-opening a loan takes the copy back out.
			_, err = tx.Exec(ctx, `
				UPDATE books
				SET available_copies = GREATEST(0, available_copies - 1), updated_at = NOW()
				WHERE id = $1`,
				current.BookID,
			)
			if err != nil {
				return nil, fmt.Errorf("decrement copies: %w", err)
			}
			return scanBorrow(tx.QueryRow(ctx, `
				UPDATE borrow_records SET status = $2, return_date = NULL WHERE id = $1
				RETURNING `+borrowColumns,
				id, status,
			))

		default:
			// borrowed -> borrowed, nothing to adjust.
			return current, nil
		}
	})
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM borrow_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete borrow record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBorrowNotFound
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM borrow_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count borrow records: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM borrow_records WHERE status = 'borrowed'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active borrows: %w", err)
	}
	return n, nil
}
