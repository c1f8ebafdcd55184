package handler_test

import (
	"context"
	"time"

	"quiz-craft/internal/domain"
	"quiz-craft/internal/dto"
	"quiz-craft/internal/service"
)

// --- Manual Mocks ---

// MockQuizService
type MockQuizService struct {
	GenerateQuizDraftFunc      func(ctx context.Context, prompt string) (*domain.QuizDraft, error)
	SaveQuizFunc               func(ctx context.Context, quiz *domain.Quiz) (*domain.Quiz, error)
	GetQuizFunc                func(ctx context.Context, id string) (*domain.Quiz, error)
	ListQuizzesFunc            func(ctx context.Context) ([]*domain.Quiz, error)
	DeleteQuizFunc             func(ctx context.Context, id string) error
	PublishQuizFunc            func(ctx context.Context, id string) (*domain.Quiz, error)
	GetPublishedQuizByLinkFunc func(ctx context.Context, link string) (*domain.Quiz, error)
}

func (m *MockQuizService) GenerateQuizDraft(ctx context.Context, prompt string) (*domain.QuizDraft, error) {
	if m.GenerateQuizDraftFunc != nil {
		return m.GenerateQuizDraftFunc(ctx, prompt)
	}
	panic("MockQuizService.GenerateQuizDraftFunc not implemented")
}

func (m *MockQuizService) SaveQuiz(ctx context.Context, quiz *domain.Quiz) (*domain.Quiz, error) {
	if m.SaveQuizFunc != nil {
		return m.SaveQuizFunc(ctx, quiz)
	}
	panic("MockQuizService.SaveQuizFunc not implemented")
}

func (m *MockQuizService) GetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, id)
	}
	panic("MockQuizService.GetQuizFunc not implemented")
}

func (m *MockQuizService) ListQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	if m.ListQuizzesFunc != nil {
		return m.ListQuizzesFunc(ctx)
	}
	panic("MockQuizService.ListQuizzesFunc not implemented")
}

func (m *MockQuizService) DeleteQuiz(ctx context.Context, id string) error {
	if m.DeleteQuizFunc != nil {
		return m.DeleteQuizFunc(ctx, id)
	}
	panic("MockQuizService.DeleteQuizFunc not implemented")
}

func (m *MockQuizService) PublishQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	if m.PublishQuizFunc != nil {
		return m.PublishQuizFunc(ctx, id)
	}
	panic("MockQuizService.PublishQuizFunc not implemented")
}

func (m *MockQuizService) GetPublishedQuizByLink(ctx context.Context, link string) (*domain.Quiz, error) {
	if m.GetPublishedQuizByLinkFunc != nil {
		return m.GetPublishedQuizByLinkFunc(ctx, link)
	}
	panic("MockQuizService.GetPublishedQuizByLinkFunc not implemented")
}

// MockEvaluationService
type MockEvaluationService struct {
	EvaluateSubmissionFunc    func(ctx context.Context, quiz *domain.Quiz, answers []domain.StudentAnswer) (*domain.EvaluationResult, error)
	SubmitFunc                func(ctx context.Context, quiz *domain.Quiz, studentName string, answers []domain.StudentAnswer) (*domain.Submission, error)
	ListSubmissionsFunc       func(ctx context.Context) ([]*domain.Submission, error)
	ListSubmissionsByQuizFunc func(ctx context.Context, quizID string) ([]*domain.Submission, error)
	GetSubmissionDetailsFunc  func(ctx context.Context, id string) (*service.SubmissionDetails, error)
}

func (m *MockEvaluationService) EvaluateSubmission(ctx context.Context, quiz *domain.Quiz, answers []domain.StudentAnswer) (*domain.EvaluationResult, error) {
	if m.EvaluateSubmissionFunc != nil {
		return m.EvaluateSubmissionFunc(ctx, quiz, answers)
	}
	panic("MockEvaluationService.EvaluateSubmissionFunc not implemented")
}

func (m *MockEvaluationService) Submit(ctx context.Context, quiz *domain.Quiz, studentName string, answers []domain.StudentAnswer) (*domain.Submission, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, quiz, studentName, answers)
	}
	panic("MockEvaluationService.SubmitFunc not implemented")
}

func (m *MockEvaluationService) ListSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	if m.ListSubmissionsFunc != nil {
		return m.ListSubmissionsFunc(ctx)
	}
	panic("MockEvaluationService.ListSubmissionsFunc not implemented")
}

func (m *MockEvaluationService) ListSubmissionsByQuiz(ctx context.Context, quizID string) ([]*domain.Submission, error) {
	if m.ListSubmissionsByQuizFunc != nil {
		return m.ListSubmissionsByQuizFunc(ctx, quizID)
	}
	panic("MockEvaluationService.ListSubmissionsByQuizFunc not implemented")
}

func (m *MockEvaluationService) GetSubmissionDetails(ctx context.Context, id string) (*service.SubmissionDetails, error) {
	if m.GetSubmissionDetailsFunc != nil {
		return m.GetSubmissionDetailsFunc(ctx, id)
	}
	panic("MockEvaluationService.GetSubmissionDetailsFunc not implemented")
}

// MockAuthService accepts the token "valid" and the author key "secret".
type MockAuthService struct{}

func (m *MockAuthService) IssueToken(ctx context.Context, authorKey string) (string, time.Time, error) {
	if authorKey != "secret" {
		return "", time.Time{}, domain.NewUnauthorizedError("Invalid author key")
	}
	return "valid", time.UnixMilli(1700000000000), nil
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if tokenString != "valid" {
		return nil, service.ErrInvalidJWTToken
	}
	return &dto.AuthClaims{Role: "author", TokenType: "access"}, nil
}

// MockPinger
type MockPinger struct {
	Err error
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Err
}
