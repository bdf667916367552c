package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/core/tx"
	"outflow/pkg/logger"
)

// ServiceConfig holds auth service settings.
type ServiceConfig struct {
	MaxLoginAttempts   int
	LockDuration       time.Duration
	PasswordMinLength  int
	RefreshTokenExpiry time.Duration
}

// DefaultServiceConfig returns the standard settings.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:   5,
		LockDuration:       15 * time.Minute,
		PasswordMinLength:  8,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
}

// Service provides registration, login and token refresh.
type Service struct {
	userRepo   UserRepository
	tokenRepo  TokenRepository
	txManager  tx.Manager
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates the auth service.
func NewService(userRepo UserRepository, tokenRepo TokenRepository, txManager tx.Manager, jwtService *JWTService, config ServiceConfig) *Service {
	return &Service{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		txManager:  txManager,
		jwtService: jwtService,
		config:     config,
	}
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Email == "" {
		return nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	exists, err := s.userRepo.Exists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewConflict("email already registered").WithDetail("email", req.Email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(req.Email, string(passwordHash))
	user.FullName = req.FullName

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenPair, *User, error) {
	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err := user.CanLogin(); err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		_ = s.userRepo.Update(ctx, user)
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	user.RecordSuccessfulLogin()
	_ = s.userRepo.Update(ctx, user)

	logger.Info(ctx, "user logged in", "user_id", user.ID, "email", user.Email)
	return tokens, user, nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair. The old
// token is revoked.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.tokenRepo.GetRefreshToken(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid refresh token")
	}
	if !token.IsValid() {
		return nil, apperror.NewUnauthorized("refresh token expired or revoked")
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, apperror.NewUnauthorized("user not found")
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	_ = s.tokenRepo.RevokeRefreshToken(ctx, token.ID, "refreshed")

	return s.generateTokenPair(ctx, user)
}

// Logout revokes all of a user's refresh tokens.
func (s *Service) Logout(ctx context.Context, userID id.ID) error {
	return s.tokenRepo.RevokeAllUserTokens(ctx, userID, "logout")
}

// GetUserByID loads a user profile.
func (s *Service) GetUserByID(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return user, nil
}

func (s *Service) generateTokenPair(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user.ID.String(), user.Email, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshRaw, err := generateRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refresh := &RefreshToken{
		ID:        id.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshRaw),
		ExpiresAt: time.Now().Add(s.config.RefreshTokenExpiry),
		CreatedAt: time.Now(),
	}
	if err := s.tokenRepo.SaveRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshRaw,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func generateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
