package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/credon/authserver/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const userColumns = `id, name, email, role, password_hash, is_email_verified,
		created_at, updated_at, reset_token, reset_token_expires_at`

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByValidResetToken matches a user whose stored reset token equals token
// and whose expiry is strictly after now.
func (r *UserRepository) GetByValidResetToken(ctx context.Context, token string, now time.Time) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_token = $1 AND reset_token_expires_at > $2`
	return r.scanUser(r.db.QueryRowContext(ctx, query, token, now))
}

// Create inserts a new user with role USER and an unverified email.
// A duplicate email returns ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash string) (types.User, error) {
	now := time.Now()
	user := types.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         types.RoleUser,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	const query = `
		INSERT INTO users (id, name, email, role, password_hash, is_email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.Role,
		user.PasswordHash,
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return types.User{}, ErrDuplicateEmail
		}
		return types.User{}, err
	}
	return user, nil
}

// SetResetToken stores a pending reset token and its expiry on the user.
func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	const query = `
		UPDATE users
		SET reset_token = $1,
			reset_token_expires_at = $2,
			updated_at = $3
		WHERE id = $4`
	return r.execOne(ctx, query, token, expiresAt, time.Now(), id)
}

// UpdatePassword replaces the password hash and clears any pending reset
// token in the same statement, making reset tokens single-use.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $1,
			reset_token = NULL,
			reset_token_expires_at = NULL,
			updated_at = $2
		WHERE id = $3`
	return r.execOne(ctx, query, passwordHash, time.Now(), id)
}

func (r *UserRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.ResetToken,
		&user.ResetTokenExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
