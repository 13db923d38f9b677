package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"gcmn-library-backend/internal/domains/donation/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, donation *model.Donation) error
	List(ctx context.Context) ([]model.Donation, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	SumAmount(ctx context.Context) (decimal.Decimal, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{db: db}
}

const donationColumns = `id, name, email, phone, amount, method, note, status, created_at`

func scanDonation(row pgx.Row) (*model.Donation, error) {
	var d model.Donation
	err := row.Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.Amount, &d.Method, &d.Note, &d.Status, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrDonationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan donation: %w", err)
	}
	return &d, nil
}

func (r *postgresRepository) Create(ctx context.Context, donation *model.Donation) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO donations (id, name, email, phone, amount, method, note, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		donation.ID, donation.Name, donation.Email, donation.Phone, donation.Amount,
		donation.Method, donation.Note, donation.Status, donation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Donation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+donationColumns+` FROM donations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	donations := make([]model.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, *d)
	}
	return donations, rows.Err()
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM donations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete donation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDonationNotFound
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM donations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count donations: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) SumAmount(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM donations`).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum donations: %w", err)
	}
	return sum, nil
}
