package auth

import (
	"context"

	"outflow/internal/core/id"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Exists(ctx context.Context, email string) (bool, error)
}

// TokenRepository defines refresh-token storage operations.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error
	RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error
	CleanupExpiredTokens(ctx context.Context) (int, error)
}
