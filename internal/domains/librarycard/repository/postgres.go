package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gcmn-library-backend/internal/domains/librarycard/model"
	"gcmn-library-backend/pkg/database"
)

// ErrDuplicateCardNumber surfaces the card-number unique index. The service
// treats it as a lost race and regenerates the suffix.
var ErrDuplicateCardNumber = errors.New("card number already exists")

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const applicationColumns = `
	id, user_id, first_name, last_name, father_name, dob,
	class, field, roll_no, email, phone,
	address_street, address_city, address_state, address_zip,
	card_number, student_id, issue_date, valid_through,
	status, created_at, updated_at
`

func scanApplication(row pgx.Row) (*model.Application, error) {
	var a model.Application
	err := row.Scan(
		&a.ID, &a.UserID, &a.FirstName, &a.LastName, &a.FatherName, &a.DOB,
		&a.Class, &a.Field, &a.RollNo, &a.Email, &a.Phone,
		&a.AddressStreet, &a.AddressCity, &a.AddressState, &a.AddressZip,
		&a.CardNumber, &a.StudentID, &a.IssueDate, &a.ValidThrough,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepository) Create(ctx context.Context, app *model.Application) error {
	query := `
		INSERT INTO library_card_applications (` + applicationColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`

	_, err := r.pool.Exec(ctx, query,
		app.ID, app.UserID, app.FirstName, app.LastName, app.FatherName, app.DOB,
		app.Class, app.Field, app.RollNo, app.Email, app.Phone,
		app.AddressStreet, app.AddressCity, app.AddressState, app.AddressZip,
		app.CardNumber, app.StudentID, app.IssueDate, app.ValidThrough,
		app.Status, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return model.ErrDuplicateEmail
			}
			return ErrDuplicateCardNumber
		}
		return fmt.Errorf("failed to insert application: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*model.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM library_card_applications WHERE id = $1`

	app, err := scanApplication(r.pool.QueryRow(ctx, query, strings.TrimSpace(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

func (r *postgresRepository) GetByCardNumber(ctx context.Context, cardNumber string) (*model.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM library_card_applications WHERE lower(card_number) = lower($1)`

	app, err := scanApplication(r.pool.QueryRow(ctx, query, strings.TrimSpace(cardNumber)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application by card number: %w", err)
	}
	return app, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM library_card_applications ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID string) ([]model.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM library_card_applications WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by user: %w", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

func collectApplications(rows pgx.Rows) ([]model.Application, error) {
	apps := make([]model.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM library_card_applications WHERE lower(email) = lower($1))`,
		strings.TrimSpace(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application email: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) CardNumberExists(ctx context.Context, cardNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM library_card_applications WHERE lower(card_number) = lower($1))`,
		cardNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check card number: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus, student *model.Student) (*model.Application, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Application, error) {
		query := `
			UPDATE library_card_applications
			SET status = $2, updated_at = now()
			WHERE id = $1
			RETURNING ` + applicationColumns

		app, err := scanApplication(tx.QueryRow(ctx, query, strings.TrimSpace(id), status))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrApplicationNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update application status: %w", err)
		}

		if student != nil {
			// The unique index on lower(card_id) makes approval idempotent:
			// a second approval, or a concurrent one, inserts nothing.
			_, err := tx.Exec(ctx, `
				INSERT INTO students (id, user_id, card_id, name, class, field, roll_no, email, phone, created_at)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
				ON CONFLICT ((lower(card_id))) DO NOTHING
			`,
				student.ID, student.UserID, student.CardID, student.Name,
				student.Class, student.Field, student.RollNo,
				student.Email, student.Phone, student.CreatedAt,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to insert student projection: %w", err)
			}
		}

		return app, nil
	})
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM library_card_applications WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrApplicationNotFound
	}
	return nil
}

func (r *postgresRepository) ListStudents(ctx context.Context) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, card_id, name, class, field, roll_no, email, phone, created_at
		FROM students ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := make([]model.Student, 0)
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.CardID, &s.Name, &s.Class,
			&s.Field, &s.RollNo, &s.Email, &s.Phone, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
