package handler

import (
	"quiz-craft/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth       *AuthHandler
	AI         *AIHandler
	Quiz       *QuizHandler
	Submission *SubmissionHandler
}

// RegisterRoutes mounts the API under api. protect guards the author routes.
func RegisterRoutes(api fiber.Router, h Handlers, protect fiber.Handler, vm *middleware.ValidationMiddleware) {
	api.Post("/auth/token", h.Auth.IssueToken)

	// Respondent routes are public. They are registered before /quizzes/:id.
	api.Get("/quizzes/link/:link", vm.ValidateShareLink(), h.Quiz.GetQuizByLink)
	api.Post("/quizzes/link/:link/submissions", vm.ValidateShareLink(), h.Submission.SubmitByLink)

	ai := api.Group("/ai", protect)
	ai.Post("/generate", h.AI.GenerateQuiz)
	ai.Post("/evaluate", h.AI.EvaluateAnswers)

	quizzes := api.Group("/quizzes", protect)
	quizzes.Get("/", h.Quiz.ListQuizzes)
	quizzes.Post("/", h.Quiz.SaveQuiz)
	quizzes.Get("/:id", vm.ValidateIDParam("id"), h.Quiz.GetQuiz)
	quizzes.Delete("/:id", vm.ValidateIDParam("id"), h.Quiz.DeleteQuiz)
	quizzes.Post("/:id/publish", vm.ValidateIDParam("id"), h.Quiz.PublishQuiz)

	submissions := api.Group("/submissions", protect)
	submissions.Get("/", h.Submission.ListSubmissions)
	submissions.Get("/quiz/:quizId", vm.ValidateIDParam("quizId"), h.Submission.ListSubmissionsByQuiz)
	submissions.Get("/:id", vm.ValidateIDParam("id"), h.Submission.GetSubmission)
}
