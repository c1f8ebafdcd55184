package handler

import (
	"quiz-craft/internal/domain"
	"quiz-craft/internal/dto"
	"quiz-craft/internal/logger"
	"quiz-craft/internal/service"
	"quiz-craft/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// ListQuizzes godoc
// @Summary List quizzes
// @Description Returns all quizzes, most recently updated first
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.QuizResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.service.ListQuizzes(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(quizzes))
}

// SaveQuiz godoc
// @Summary Create or update a quiz
// @Description Stores the quiz. A quiz with an existing id is replaced.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quiz body dto.QuizRequest true "Quiz"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) SaveQuiz(c *fiber.Ctx) error {
	var req dto.QuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Invalid quiz body", zap.Error(err))
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateQuizRequest(&req); len(errs) > 0 {
		return errs
	}

	quiz, err := h.service.SaveQuiz(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// GetQuiz godoc
// @Summary Get a quiz
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.service.GetQuiz(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Description Deletes the quiz and its submissions
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	if err := h.service.DeleteQuiz(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Quiz deleted successfully"})
}

// PublishQuiz godoc
// @Summary Publish a quiz
// @Description Marks the quiz as published and assigns its share link
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/publish [post]
func (h *QuizHandler) PublishQuiz(c *fiber.Ctx) error {
	quiz, err := h.service.PublishQuiz(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// GetQuizByLink godoc
// @Summary Open a published quiz
// @Description Returns the respondent view of a published quiz. Correct answers are not included.
// @Tags respondents
// @Produce json
// @Param link path string true "Share link"
// @Success 200 {object} dto.PublicQuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/link/{link} [get]
func (h *QuizHandler) GetQuizByLink(c *fiber.Ctx) error {
	quiz, err := h.service.GetPublishedQuizByLink(c.UserContext(), c.Params("link"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPublicQuizResponse(quiz))
}
