package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"gcmn-library-backend/internal/domains/report/model"
)

// RepositoryInterface aggregates counters across the whole schema for
// the admin dashboard. Read-only.
type RepositoryInterface interface {
	GetStats(ctx context.Context) (*model.Stats, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetStats(ctx context.Context) (*model.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM books),
			(SELECT COUNT(*) FROM library_card_applications),
			(SELECT COUNT(*) FROM library_card_applications WHERE status = 'pending'),
			(SELECT COUNT(*) FROM library_card_applications WHERE status = 'approved'),
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM borrow_records),
			(SELECT COUNT(*) FROM borrow_records WHERE status = 'borrowed'),
			(SELECT COUNT(*) FROM borrow_records WHERE status = 'returned'),
			(SELECT COUNT(*) FROM donations),
			(SELECT COALESCE(SUM(amount), 0) FROM donations),
			(SELECT COUNT(*) FROM messages WHERE seen = FALSE)`

	var s model.Stats
	err := r.db.QueryRow(ctx, query).Scan(
		&s.Users, &s.Books, &s.CardApplications, &s.PendingCards, &s.ApprovedCards,
		&s.Students, &s.Borrows, &s.ActiveBorrows, &s.ReturnedBorrows,
		&s.Donations, &s.DonationTotal, &s.UnseenMessages,
	)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return &s, nil
}
