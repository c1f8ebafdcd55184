package service

import (
	"context"
	"math"
	"strings"
	"time"

	"quiz-craft/internal/domain"
	"quiz-craft/internal/grading"
	"quiz-craft/internal/logger"
	"quiz-craft/internal/monitoring"
	"quiz-craft/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SubmissionDetails is a stored submission with the quiz it answers and the
// rows needed to render it.
type SubmissionDetails struct {
	Submission *domain.Submission
	Quiz       *domain.Quiz
	Rows       []domain.DisplayRow
}

// EvaluationService grades answers and manages submissions
type EvaluationService interface {
	EvaluateSubmission(ctx context.Context, quiz *domain.Quiz, answers []domain.StudentAnswer) (*domain.EvaluationResult, error)
	Submit(ctx context.Context, quiz *domain.Quiz, studentName string, answers []domain.StudentAnswer) (*domain.Submission, error)
	ListSubmissions(ctx context.Context) ([]*domain.Submission, error)
	ListSubmissionsByQuiz(ctx context.Context, quizID string) ([]*domain.Submission, error)
	GetSubmissionDetails(ctx context.Context, id string) (*SubmissionDetails, error)
}

type evaluationService struct {
	quizRepo       domain.QuizRepository
	submissionRepo domain.SubmissionRepository
	txManager      domain.TransactionManager
	generator      domain.TextGenerator
	verify         func(*domain.Quiz, *domain.EvaluationResult) error
	now            func() time.Time
}

// NewEvaluationService creates a new instance of evaluationService
func NewEvaluationService(
	quizRepo domain.QuizRepository,
	submissionRepo domain.SubmissionRepository,
	txManager domain.TransactionManager,
	generator domain.TextGenerator,
) EvaluationService {
	return &evaluationService{
		quizRepo:       quizRepo,
		submissionRepo: submissionRepo,
		txManager:      txManager,
		generator:      generator,
		verify:         grading.Verify,
		now:            time.Now,
	}
}

// EvaluateSubmission grades answers against quiz. Answers are normalized and
// choice indices resolved to option text before the model sees them. The
// returned result always has one entry per question and a recomputed score.
func (s *evaluationService) EvaluateSubmission(ctx context.Context, quiz *domain.Quiz, answers []domain.StudentAnswer) (*domain.EvaluationResult, error) {
	if quiz == nil || len(quiz.Questions) == 0 {
		return nil, domain.NewInvalidInputError("quiz with at least one question is required")
	}

	l := logger.Get()
	prepared := grading.PrepareAnswers(quiz, answers)
	prompt, err := buildEvaluationPrompt(quiz, prepared)
	if err != nil {
		return nil, domain.NewInternalError("Failed to build evaluation prompt", err)
	}

	raw, err := s.generator.Generate(ctx, domain.GenerationRequest{
		Operation:   domain.OperationEvaluate,
		System:      evaluationSystemPrompt,
		User:        prompt,
		Temperature: evaluationTemperature,
	})
	if err != nil {
		l.Error("evaluation call failed", zap.String("quiz_id", quiz.ID), zap.Error(err))
		return nil, domain.NewEvaluationError(err)
	}

	payload, err := grading.ParseGradingPayload(raw)
	if err != nil {
		recordPayloadError(domain.OperationEvaluate, err)
		l.Warn("unusable evaluation payload", zap.String("quiz_id", quiz.ID), zap.Error(err), zap.Int("raw_length", len(raw)))
		return nil, domain.NewEvaluationError(err)
	}

	result := grading.Reconcile(quiz, payload)
	if err := s.verify(quiz, &result); err != nil {
		l.Error("reconciled evaluation violates scoring invariants", zap.String("quiz_id", quiz.ID), zap.Error(err))
		return nil, domain.NewEvaluationError(domain.NewInternalError("Evaluation failed consistency check", err))
	}
	if math.Abs(payload.ReportedScore-result.Score) > 0.005 || int(payload.ReportedMaxScore) != result.MaxScore {
		l.Info("model score overridden",
			zap.String("quiz_id", quiz.ID),
			zap.Float64("reported_score", payload.ReportedScore),
			zap.Float64("reported_max_score", payload.ReportedMaxScore),
			zap.Float64("score", result.Score),
			zap.Int("max_score", result.MaxScore))
	}
	if len(payload.Results) != len(quiz.Questions) {
		l.Info("model result count differs from quiz",
			zap.String("quiz_id", quiz.ID),
			zap.Int("results", len(payload.Results)),
			zap.Int("questions", len(quiz.Questions)))
	}

	monitoring.ObserveEvaluation(result.Score, result.MaxScore)
	return &result, nil
}

// Submit grades a respondent's answers and stores them with the evaluation.
func (s *evaluationService) Submit(ctx context.Context, quiz *domain.Quiz, studentName string, answers []domain.StudentAnswer) (*domain.Submission, error) {
	studentName = strings.TrimSpace(studentName)
	if studentName == "" {
		return nil, domain.NewInvalidInputError("studentName is required")
	}
	if quiz == nil {
		return nil, domain.NewInvalidInputError("quiz is required")
	}

	evaluation, err := s.EvaluateSubmission(ctx, quiz, answers)
	if err != nil {
		return nil, err
	}

	submission := &domain.Submission{
		ID:          util.NewULID(),
		QuizID:      quiz.ID,
		StudentName: studentName,
		Answers:     grading.PrepareAnswers(quiz, answers),
		SubmittedAt: s.now().UTC(),
		Evaluation:  evaluation,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		stored, err := s.quizRepo.GetQuizByID(txCtx, quiz.ID)
		if err != nil {
			return domain.NewInternalError("Failed to load quiz", err)
		}
		if stored == nil {
			return domain.NewQuizNotFoundError(quiz.ID)
		}
		if !stored.IsPublished() {
			return domain.NewNotFoundError("Quiz not found or not published")
		}
		if err := s.submissionRepo.CreateSubmission(txCtx, submission); err != nil {
			return domain.NewInternalError("Failed to save submission", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("submission stored",
		zap.String("submission_id", submission.ID),
		zap.String("quiz_id", quiz.ID),
		zap.Float64("score", evaluation.Score),
		zap.Int("max_score", evaluation.MaxScore))
	return submission, nil
}

// ListSubmissions implements EvaluationService
func (s *evaluationService) ListSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	subs, err := s.submissionRepo.ListSubmissions(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list submissions", err)
	}
	if subs == nil {
		subs = []*domain.Submission{}
	}
	return subs, nil
}

// ListSubmissionsByQuiz returns the quiz's submissions, newest first. The quiz
// lookup and the submission query run concurrently; an unknown quiz is an error.
func (s *evaluationService) ListSubmissionsByQuiz(ctx context.Context, quizID string) ([]*domain.Submission, error) {
	var (
		quiz *domain.Quiz
		subs []*domain.Submission
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quiz, err = s.quizRepo.GetQuizByID(gctx, quizID)
		if err != nil {
			return domain.NewInternalError("Failed to get quiz", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		subs, err = s.submissionRepo.ListSubmissionsByQuiz(gctx, quizID)
		if err != nil {
			return domain.NewInternalError("Failed to list submissions", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	if subs == nil {
		subs = []*domain.Submission{}
	}
	return subs, nil
}

// GetSubmissionDetails loads a submission, its quiz and the display rows.
func (s *evaluationService) GetSubmissionDetails(ctx context.Context, id string) (*SubmissionDetails, error) {
	sub, err := s.submissionRepo.GetSubmissionByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get submission", err)
	}
	if sub == nil {
		return nil, domain.NewSubmissionNotFoundError(id)
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, sub.QuizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(sub.QuizID)
	}

	return &SubmissionDetails{
		Submission: sub,
		Quiz:       quiz,
		Rows:       ResolveDisplayRows(quiz, sub),
	}, nil
}

// ResolveDisplayRows pairs every question of quiz with the submission's answer
// and result. It never fails.
func ResolveDisplayRows(quiz *domain.Quiz, sub *domain.Submission) []domain.DisplayRow {
	if quiz == nil || sub == nil {
		return []domain.DisplayRow{}
	}
	return grading.ResolveDisplayRows(quiz, sub)
}
