// Package auth provides authentication for the warehouse API.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"outflow/internal/core/appctx"
)

// JWTConfig holds token signing configuration.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// DefaultJWTConfig returns the standard configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:         secret,
		Issuer:         "outflow",
		AccessTokenTTL: 15 * time.Minute,
	}
}

// Claims are the JWT claims carried by access tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"uid"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"adm,omitempty"`
}

// JWTService signs and validates access tokens.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// GenerateAccessToken issues a signed access token for a user.
func (s *JWTService) GenerateAccessToken(userID, email string, isAdmin bool) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:  userID,
		Email:   email,
		IsAdmin: isAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token, returning the caller identity.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &appctx.User{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}
