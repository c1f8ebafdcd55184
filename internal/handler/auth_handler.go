package handler

import (
	"strings"

	"quiz-craft/internal/domain"
	"quiz-craft/internal/dto"
	"quiz-craft/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// IssueToken godoc
// @Summary Exchange the author key for a token
// @Description Returns a bearer token for the author routes
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "Author key"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if strings.TrimSpace(req.AuthorKey) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("authorKey")}
	}

	token, expiresAt, err := h.authService.IssueToken(c.UserContext(), req.AuthorKey)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.UnixMilli(),
	})
}
