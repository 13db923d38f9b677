package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gcmn-library-backend/internal/domains/identity/model"
	"gcmn-library-backend/internal/shared/utils"
	"gcmn-library-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const userColumns = `
	id, email, password_hash, full_name, phone,
	roll_number, department, student_class, type,
	created_at, updated_at
`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FullName, &u.Phone,
		&u.RollNumber, &u.Department, &u.StudentClass, &u.Type,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) CreateUser(ctx context.Context, user *model.User, defaultRole string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (`+userColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`,
			user.ID, user.Email, user.Password, user.FullName, user.Phone,
			user.RollNumber, user.Department, user.StudentClass, user.Type,
			user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return model.ErrEmailAlreadyExists
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO role_assignments (id, user_id, role, created_at)
			VALUES ($1, $2, $3, now())
		`, utils.GenerateHexID(), user.ID, defaultRole)
		if err != nil {
			return fmt.Errorf("failed to insert default role: %w", err)
		}

		return nil
	})
}

func (r *postgresRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, strings.TrimSpace(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) DeleteUser(ctx context.Context, id string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM role_assignments WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete role assignments: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrUserNotFound
		}
		return nil
	})
}

func (r *postgresRepository) ListNonStudents(ctx context.Context) ([]model.DirectoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, COALESCE(NULLIF(full_name, ''), email), type, COALESCE(phone, '-'), created_at
		FROM users
		WHERE type <> 'student'
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list non-students: %w", err)
	}
	defer rows.Close()

	entries := make([]model.DirectoryEntry, 0)
	for rows.Next() {
		var e model.DirectoryEntry
		var userType string
		if err := rows.Scan(&e.ID, &e.Name, &userType, &e.Phone, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan directory entry: %w", err)
		}
		e.UserID = e.ID
		e.Role = "User"
		if userType == "admin" {
			e.Role = "System Admin"
		} else if userType != "" {
			e.Role = userType
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, full_name, phone, address, created_at, updated_at
		FROM profiles WHERE user_id = $1
	`, userID).Scan(&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil // no profile yet is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) UpsertProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.Profile, error) {
	var p model.Profile
	err := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, user_id, full_name, phone, address, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    phone = EXCLUDED.phone,
		    address = EXCLUDED.address,
		    updated_at = now()
		RETURNING id, user_id, full_name, phone, address, created_at, updated_at
	`, utils.GenerateHexID(), userID, req.FullName, req.Phone, req.Address).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) GetRoles(ctx context.Context, userID string) ([]model.RoleAssignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, role, created_at
		FROM role_assignments WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}
	defer rows.Close()

	roles := make([]model.RoleAssignment, 0)
	for rows.Next() {
		var ra model.RoleAssignment
		if err := rows.Scan(&ra.ID, &ra.UserID, &ra.Role, &ra.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role assignment: %w", err)
		}
		roles = append(roles, ra)
	}
	return roles, rows.Err()
}

func (r *postgresRepository) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM role_assignments WHERE user_id = $1 AND role = $2)`,
		userID, role,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return exists, nil
}
