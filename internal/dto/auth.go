package dto

import "github.com/golang-jwt/jwt/v5"

// TokenRequest exchanges the author key for a bearer token
// @Description Author login request
type TokenRequest struct {
	AuthorKey string `json:"authorKey"`
}

// TokenResponse carries a signed access token
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}
