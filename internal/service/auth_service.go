package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-craft/internal/config"
	"quiz-craft/internal/domain"
	"quiz-craft/internal/dto"
	"quiz-craft/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess = "access"
	authorSubject   = "author"
	tokenIssuer     = "quiz-craft"
)

var (
	ErrInvalidAuthorKey = errors.New("invalid author key")
	ErrInvalidJWTToken  = errors.New("invalid jwt token")
	ErrTokenExpired     = errors.New("token has expired")
)

// AuthService issues and validates author tokens.
type AuthService interface {
	IssueToken(ctx context.Context, authorKey string) (token string, expiresAt time.Time, err error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	secret  []byte
	keyHash []byte
	ttl     time.Duration
	now     func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(cfg config.AuthConfig) (AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	if cfg.AuthorKeyHash == "" {
		return nil, errors.New("author key hash is not configured")
	}
	if _, err := bcrypt.Cost([]byte(cfg.AuthorKeyHash)); err != nil {
		return nil, fmt.Errorf("author key hash is not a bcrypt hash: %w", err)
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &authServiceImpl{
		secret:  []byte(cfg.JWTSecret),
		keyHash: []byte(cfg.AuthorKeyHash),
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// IssueToken exchanges the author key for a signed access token.
func (s *authServiceImpl) IssueToken(ctx context.Context, authorKey string) (string, time.Time, error) {
	if err := bcrypt.CompareHashAndPassword(s.keyHash, []byte(authorKey)); err != nil {
		logger.Get().Warn("author key rejected")
		return "", time.Time{}, domain.NewError(domain.CodeUnauthorized, "Invalid author key", ErrInvalidAuthorKey)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &dto.AuthClaims{
		Role:      authorSubject,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   authorSubject,
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, domain.NewInternalError("Failed to sign token", err)
	}
	return signed, expiresAt, nil
}

// ValidateJWT parses and verifies an access token.
func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		logger.Get().Debug("jwt validation failed", zap.Error(err))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidJWTToken
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidJWTToken, claims.TokenType)
	}
	return claims, nil
}
