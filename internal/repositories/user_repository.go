package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Sitara-Husain/ECommerce/internal/models"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// GetByEmail matches case-insensitively. Returns nil if not found.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type userRepo struct {
	db DB
}

// NewUserRepository creates a new instance of the user repository.
func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

func baseSelectUser() string {
	return `
		SELECT id, first_name, last_name, email, password_hash,
		       is_active, is_staff, first_login_at, last_login_at,
		       created_at, updated_at
		FROM users`
}

func (r *userRepo) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.IsActive, &u.IsStaff, &u.FirstLoginAt, &u.LastLoginAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	q := `
		INSERT INTO users (
			id, first_name, last_name, email, password_hash,
			is_active, is_staff, created_at, updated_at
		) VALUES ($1, $2, $3, LOWER($4), $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, q,
		user.ID, user.FirstName, user.LastName, user.Email,
		user.PasswordHash, user.IsActive, user.IsStaff,
	)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE id = $1", id)
	return r.scanUser(row)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE LOWER(email) = LOWER($1)", email)
	return r.scanUser(row)
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`
	var exists bool
	err := r.db.QueryRow(ctx, q, email).Scan(&exists)
	return exists, err
}

func (r *userRepo) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := `
		UPDATE users SET
			first_login_at = COALESCE(first_login_at, $1),
			last_login_at = $1,
			updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, q, at, id)
	return err
}

func (r *userRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, q, active, id)
	return err
}
