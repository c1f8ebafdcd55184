package handler

import (
	"quiz-craft/internal/domain"
	"quiz-craft/internal/dto"
	"quiz-craft/internal/service"
	"quiz-craft/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SubmissionHandler handles respondent submissions and their review
type SubmissionHandler struct {
	quizService       service.QuizService
	evaluationService service.EvaluationService
	validator         *validation.Validator
}

// NewSubmissionHandler creates a new SubmissionHandler instance
func NewSubmissionHandler(quizService service.QuizService, evaluationService service.EvaluationService, validator *validation.Validator) *SubmissionHandler {
	return &SubmissionHandler{
		quizService:       quizService,
		evaluationService: evaluationService,
		validator:         validator,
	}
}

// SubmitByLink godoc
// @Summary Submit answers to a published quiz
// @Description Grades the answers and stores the submission with its evaluation
// @Tags respondents
// @Accept json
// @Produce json
// @Param link path string true "Share link"
// @Param request body dto.SubmitRequest true "Answers"
// @Success 201 {object} dto.SubmissionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /quizzes/link/{link}/submissions [post]
func (h *SubmissionHandler) SubmitByLink(c *fiber.Ctx) error {
	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateSubmitRequest(&req); len(errs) > 0 {
		return errs
	}

	quiz, err := h.quizService.GetPublishedQuizByLink(c.UserContext(), c.Params("link"))
	if err != nil {
		return err
	}
	sub, err := h.evaluationService.Submit(c.UserContext(), quiz, req.StudentName, req.Answers)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSubmissionResponse(sub))
}

// ListSubmissions godoc
// @Summary List submissions
// @Description Returns all submissions, newest first
// @Tags submissions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.SubmissionResponse
// @Router /submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *fiber.Ctx) error {
	subs, err := h.evaluationService.ListSubmissions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSubmissionListResponse(subs))
}

// ListSubmissionsByQuiz godoc
// @Summary List submissions of a quiz
// @Tags submissions
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path string true "Quiz ID"
// @Success 200 {array} dto.SubmissionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /submissions/quiz/{quizId} [get]
func (h *SubmissionHandler) ListSubmissionsByQuiz(c *fiber.Ctx) error {
	subs, err := h.evaluationService.ListSubmissionsByQuiz(c.UserContext(), c.Params("quizId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSubmissionListResponse(subs))
}

// GetSubmission godoc
// @Summary Review a submission
// @Description Returns the submission, its quiz and one display row per question
// @Tags submissions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} dto.SubmissionDetailsResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(c *fiber.Ctx) error {
	details, err := h.evaluationService.GetSubmissionDetails(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.SubmissionDetailsResponse{
		Submission: dto.NewSubmissionResponse(details.Submission),
		Quiz:       dto.NewQuizResponse(details.Quiz),
		Rows:       details.Rows,
	})
}
