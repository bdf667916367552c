// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/domain/auth"
	"outflow/internal/infrastructure/storage/postgres"
)

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txm *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{txm: txm}
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		INSERT INTO users (
			id, email, password_hash, full_name,
			is_active, is_admin, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName,
		user.IsActive, user.IsAdmin, user.CreatedAt, user.UpdatedAt, user.Version,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	q := r.txm.GetQuerier(ctx)

	query := `
		SELECT id, email, password_hash, full_name,
			   is_active, is_admin,
			   failed_login_attempts, locked_until, last_login_at,
			   created_at, updated_at, version
		FROM users
		WHERE id = $1
	`

	var user auth.User
	err := q.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName,
		&user.IsActive, &user.IsAdmin,
		&user.FailedLoginAttempts, &user.LockedUntil, &user.LastLoginAt,
		&user.CreatedAt, &user.UpdatedAt, &user.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	q := r.txm.GetQuerier(ctx)

	query := `
		SELECT id, email, password_hash, full_name,
			   is_active, is_admin,
			   failed_login_attempts, locked_until, last_login_at,
			   created_at, updated_at, version
		FROM users
		WHERE email = $1
	`

	var user auth.User
	err := q.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName,
		&user.IsActive, &user.IsAdmin,
		&user.FailedLoginAttempts, &user.LockedUntil, &user.LastLoginAt,
		&user.CreatedAt, &user.UpdatedAt, &user.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// Update updates user data with optimistic locking.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		UPDATE users SET
			full_name = $2,
			is_active = $3,
			is_admin = $4,
			failed_login_attempts = $5,
			locked_until = $6,
			last_login_at = $7,
			updated_at = now(),
			version = version + 1
		WHERE id = $1 AND version = $8
	`

	result, err := q.Exec(ctx, query,
		user.ID, user.FullName, user.IsActive, user.IsAdmin,
		user.FailedLoginAttempts, user.LockedUntil, user.LastLoginAt,
		user.Version,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("user", user.ID)
	}

	user.Version++
	return nil
}

// Exists checks whether an email is already registered.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	q := r.txm.GetQuerier(ctx)

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := q.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check exists: %w", err)
	}

	return exists, nil
}

// Ensure interface compliance
var _ auth.UserRepository = (*UserRepo)(nil)
