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

// TokenRepo implements auth.TokenRepository.
type TokenRepo struct {
	txm *postgres.TxManager
}

// NewTokenRepo creates a new token repository.
func NewTokenRepo(txm *postgres.TxManager) *TokenRepo {
	return &TokenRepo{txm: txm}
}

// SaveRefreshToken saves a refresh token.
func (r *TokenRepo) SaveRefreshToken(ctx context.Context, token *auth.RefreshToken) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		INSERT INTO auth_refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := q.Exec(ctx, query,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}

	return nil
}

// GetRefreshToken retrieves a refresh token by hash.
func (r *TokenRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	q := r.txm.GetQuerier(ctx)

	query := `
		SELECT id, user_id, token_hash, expires_at, created_at, revoked_at, COALESCE(revoked_reason, '')
		FROM auth_refresh_tokens WHERE token_hash = $1
	`

	var token auth.RefreshToken
	err := q.QueryRow(ctx, query, tokenHash).Scan(
		&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt,
		&token.CreatedAt, &token.RevokedAt, &token.RevokedReason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("token", "")
	}
	if err != nil {
		return nil, fmt.Errorf("query token: %w", err)
	}

	return &token, nil
}

// RevokeRefreshToken revokes a refresh token.
func (r *TokenRepo) RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error {
	q := r.txm.GetQuerier(ctx)

	query := `UPDATE auth_refresh_tokens SET revoked_at = now(), revoked_reason = $2 WHERE id = $1`
	if _, err := q.Exec(ctx, query, tokenID, reason); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

// RevokeAllUserTokens revokes all active tokens for a user.
func (r *TokenRepo) RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error {
	q := r.txm.GetQuerier(ctx)

	query := `UPDATE auth_refresh_tokens SET revoked_at = now(), revoked_reason = $2 WHERE user_id = $1 AND revoked_at IS NULL`
	if _, err := q.Exec(ctx, query, userID, reason); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}

	return nil
}

// CleanupExpiredTokens removes expired and long-revoked tokens.
func (r *TokenRepo) CleanupExpiredTokens(ctx context.Context) (int, error) {
	q := r.txm.GetQuerier(ctx)

	query := `DELETE FROM auth_refresh_tokens WHERE expires_at < now() OR revoked_at < now() - INTERVAL '7 days'`
	result, err := q.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("cleanup tokens: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// Ensure interface compliance
var _ auth.TokenRepository = (*TokenRepo)(nil)
