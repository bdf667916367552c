package dto

// RefreshTokenRequest carries a refresh-token exchange.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}
