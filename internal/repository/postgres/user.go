package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, created_at, updated_at, created_by, email,
			password_hash, display_name, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.CreatedAt, u.UpdatedAt, u.CreatedBy, u.Email,
		u.PasswordHash, u.DisplayName, u.Role,
	)
	if err != nil {
		return storeErr("user", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1`
	var u model.User
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		return nil, storeErr("user", err)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM users WHERE email = $1`
	var u model.User
	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		return nil, storeErr("user", err)
	}
	return &u, nil
}

func (r *userRepository) StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET token = $2, expires_at = $3, created_at = $4
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token, expiry, time.Now()); err != nil {
		return storeErr("reset token", err)
	}
	return nil
}

func (r *userRepository) ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	query := `SELECT user_id FROM password_reset_tokens WHERE token = $1 AND expires_at > $2`
	var userID uuid.UUID
	if err := r.db.GetContext(ctx, &userID, query, token, time.Now()); err != nil {
		return uuid.Nil, storeErr("reset token", err)
	}
	return userID, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, passwordHash, time.Now(), userID); err != nil {
		return storeErr("user", err)
	}
	return nil
}
