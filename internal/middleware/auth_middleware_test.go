package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-craft/internal/dto"
	"quiz-craft/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Manual MockAuthService for testing middleware.Protected
type ManualMockAuthService struct {
	ValidateJWTFunc func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

func (m *ManualMockAuthService) IssueToken(ctx context.Context, authorKey string) (string, time.Time, error) {
	panic("not implemented in mock")
}

func (m *ManualMockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	return nil, errors.New("ValidateJWTFunc not set on mock")
}

func TestProtected(t *testing.T) {
	tests := []struct {
		name             string
		authHeader       string
		validate         func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
		expectedStatus   int
		expectedCode     string
		expectNextCalled bool
	}{
		{
			name:           "No Auth Header",
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   "MISSING_AUTH_HEADER",
		},
		{
			name:           "Basic scheme",
			authHeader:     "Basic abc",
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   "INVALID_AUTH_SCHEME",
		},
		{
			name:           "Bearer without token",
			authHeader:     "Bearer  ",
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   "EMPTY_TOKEN",
		},
		{
			name:       "Invalid token",
			authHeader: "Bearer invalid_token",
			validate: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
				return nil, errors.New("invalid jwt token")
			},
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   "INVALID_TOKEN",
		},
		{
			name:       "Valid token",
			authHeader: "Bearer valid_token",
			validate: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
				assert.Equal(t, "valid_token", tokenString)
				return &dto.AuthClaims{Role: "author", TokenType: "access"}, nil
			},
			expectedStatus:   fiber.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			mockAuthSvc := &ManualMockAuthService{ValidateJWTFunc: tc.validate}

			nextHandlerCalled := false
			var claims interface{}
			app.Get("/protected", middleware.Protected(mockAuthSvc), func(c *fiber.Ctx) error {
				nextHandlerCalled = true
				claims = c.Locals(middleware.AuthorKey)
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			assert.Equal(t, tc.expectNextCalled, nextHandlerCalled)

			if tc.expectNextCalled {
				require.IsType(t, &dto.AuthClaims{}, claims)
				assert.Equal(t, "author", claims.(*dto.AuthClaims).Role)
				return
			}
			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.expectedCode, body.Code)
		})
	}
}
