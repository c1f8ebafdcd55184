package handler

import (
	"quiz-craft/internal/domain"
	"quiz-craft/internal/dto"
	"quiz-craft/internal/service"
	"quiz-craft/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AIHandler exposes draft generation and ad-hoc grading
type AIHandler struct {
	quizService       service.QuizService
	evaluationService service.EvaluationService
	validator         *validation.Validator
}

// NewAIHandler creates a new AIHandler instance
func NewAIHandler(quizService service.QuizService, evaluationService service.EvaluationService, validator *validation.Validator) *AIHandler {
	return &AIHandler{
		quizService:       quizService,
		evaluationService: evaluationService,
		validator:         validator,
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz draft
// @Description Asks the model for a quiz matching the prompt. The draft is not stored.
// @Tags ai
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.GenerateQuizRequest true "Prompt"
// @Success 200 {object} domain.QuizDraft
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /ai/generate [post]
func (h *AIHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateGenerateRequest(&req); len(errs) > 0 {
		return errs
	}

	draft, err := h.quizService.GenerateQuizDraft(c.UserContext(), req.Prompt)
	if err != nil {
		return err
	}
	return c.JSON(draft)
}

// EvaluateAnswers godoc
// @Summary Grade answers against a quiz
// @Description Grades answers against the quiz in the body without storing anything
// @Tags ai
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.EvaluateRequest true "Quiz and answers"
// @Success 200 {object} domain.EvaluationResult
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /ai/evaluate [post]
func (h *AIHandler) EvaluateAnswers(c *fiber.Ctx) error {
	var req dto.EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateEvaluateRequest(&req); len(errs) > 0 {
		return errs
	}

	result, err := h.evaluationService.EvaluateSubmission(c.UserContext(), req.Quiz.ToDomain(), req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
