package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"quiz-craft/internal/cache"
	"quiz-craft/internal/config"
	"quiz-craft/internal/domain"
	"quiz-craft/internal/grading"
	"quiz-craft/internal/logger"
	"quiz-craft/internal/monitoring"
	"quiz-craft/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// maxShareLinkAttempts bounds retries when a generated link collides.
const maxShareLinkAttempts = 5

// QuizService defines the interface for quiz authoring and lookup
type QuizService interface {
	GenerateQuizDraft(ctx context.Context, prompt string) (*domain.QuizDraft, error)
	SaveQuiz(ctx context.Context, quiz *domain.Quiz) (*domain.Quiz, error)
	GetQuiz(ctx context.Context, id string) (*domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]*domain.Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
	PublishQuiz(ctx context.Context, id string) (*domain.Quiz, error)
	GetPublishedQuizByLink(ctx context.Context, link string) (*domain.Quiz, error)
}

// quizService implements QuizService
type quizService struct {
	repo      domain.QuizRepository
	txManager domain.TransactionManager
	generator domain.TextGenerator
	cache     domain.Cache
	cfg       config.QuizConfig

	group   singleflight.Group
	newLink func(n int) (string, error)
	now     func() time.Time
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	repo domain.QuizRepository,
	txManager domain.TransactionManager,
	generator domain.TextGenerator,
	cache domain.Cache,
	cfg config.QuizConfig,
) QuizService {
	return &quizService{
		repo:      repo,
		txManager: txManager,
		generator: generator,
		cache:     cache,
		cfg:       cfg,
		newLink:   util.NewShareLink,
		now:       time.Now,
	}
}

// GenerateQuizDraft asks the model for a quiz and repairs the answer into a draft.
// Nothing is persisted.
func (s *quizService) GenerateQuizDraft(ctx context.Context, prompt string) (*domain.QuizDraft, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, domain.NewInvalidInputError("prompt is required")
	}

	l := logger.Get()
	raw, err := s.generator.Generate(ctx, domain.GenerationRequest{
		Operation:   domain.OperationGenerate,
		System:      generationSystemPrompt,
		User:        buildGenerationPrompt(prompt),
		Temperature: generationTemperature,
	})
	if err != nil {
		l.Error("quiz generation call failed", zap.Error(err))
		return nil, domain.NewGenerationError(err)
	}

	payload, err := grading.ParseDraftPayload(raw)
	if err == nil {
		var draft *domain.QuizDraft
		draft, err = grading.BuildDraft(payload, s.cfg.DefaultDurationMinutes)
		if err == nil {
			l.Info("quiz draft generated",
				zap.String("title", draft.Title),
				zap.Int("questions", len(draft.Questions)))
			return draft, nil
		}
	}

	recordPayloadError(domain.OperationGenerate, err)
	l.Warn("unusable quiz generation payload", zap.Error(err), zap.Int("raw_length", len(raw)))
	return nil, domain.NewGenerationError(err)
}

// SaveQuiz inserts a quiz or replaces the stored one with the same ID.
// Creation time, status and share link survive an update that omits them.
func (s *quizService) SaveQuiz(ctx context.Context, quiz *domain.Quiz) (*domain.Quiz, error) {
	if quiz == nil {
		return nil, domain.NewInvalidInputError("quiz is required")
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if strings.TrimSpace(quiz.ID) == "" {
		quiz.ID = util.NewULID()
	}

	existing, err := s.repo.GetQuizByID(ctx, quiz.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz", err)
	}
	if existing != nil {
		quiz.CreatedAt = existing.CreatedAt
		if quiz.Status == "" {
			quiz.Status = existing.Status
		}
		if quiz.ShareLink == "" {
			quiz.ShareLink = existing.ShareLink
		}
	} else if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = now
	}
	if quiz.Status == "" {
		quiz.Status = domain.QuizStatusDraft
	}
	quiz.UpdatedAt = now

	if err := s.repo.SaveQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("Failed to save quiz", err)
	}
	s.invalidate(ctx, existing)
	s.invalidate(ctx, quiz)
	return quiz, nil
}

// GetQuiz implements QuizService
func (s *quizService) GetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, err := s.repo.GetQuizByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return quiz, nil
}

// ListQuizzes implements QuizService
func (s *quizService) ListQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	quizzes, err := s.repo.ListQuizzes(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}
	if quizzes == nil {
		quizzes = []*domain.Quiz{}
	}
	return quizzes, nil
}

// DeleteQuiz removes a quiz together with its submissions.
func (s *quizService) DeleteQuiz(ctx context.Context, id string) error {
	var deleted *domain.Quiz
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		quiz, err := s.repo.GetQuizByID(txCtx, id)
		if err != nil {
			return domain.NewInternalError("Failed to load quiz", err)
		}
		if quiz == nil {
			return domain.NewQuizNotFoundError(id)
		}
		ok, err := s.repo.DeleteQuiz(txCtx, id)
		if err != nil {
			return domain.NewInternalError("Failed to delete quiz", err)
		}
		if !ok {
			return domain.NewQuizNotFoundError(id)
		}
		deleted = quiz
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, deleted)
	logger.Get().Info("quiz deleted", zap.String("quiz_id", id))
	return nil
}

// PublishQuiz makes a quiz reachable by its share link, assigning one if needed.
func (s *quizService) PublishQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	if quiz.ShareLink == "" {
		link, err := s.uniqueShareLink(ctx)
		if err != nil {
			return nil, err
		}
		quiz.ShareLink = link
	}
	quiz.Status = domain.QuizStatusPublished
	quiz.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("Failed to publish quiz", err)
	}
	s.invalidate(ctx, quiz)
	logger.Get().Info("quiz published", zap.String("quiz_id", quiz.ID), zap.String("share_link", quiz.ShareLink))
	return quiz, nil
}

func (s *quizService) uniqueShareLink(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxShareLinkAttempts; attempt++ {
		link, err := s.newLink(s.cfg.ShareLinkLength)
		if err != nil {
			return "", domain.NewInternalError("Failed to generate share link", err)
		}
		taken, err := s.repo.GetQuizByShareLink(ctx, link)
		if err != nil {
			return "", domain.NewInternalError("Failed to check share link", err)
		}
		if taken == nil {
			return link, nil
		}
		logger.Get().Warn("share link collision", zap.String("share_link", link), zap.Int("attempt", attempt+1))
	}
	return "", domain.NewInternalError("Failed to generate a unique share link", nil)
}

// GetPublishedQuizByLink returns the published quiz behind link. Draft quizzes
// are reported as not found. Results are cached and concurrent misses for the
// same link share one database read.
func (s *quizService) GetPublishedQuizByLink(ctx context.Context, link string) (*domain.Quiz, error) {
	l := logger.Get()
	key := cache.QuizByLinkKey(link)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var quiz domain.Quiz
		jsonErr := json.Unmarshal([]byte(cached), &quiz)
		if jsonErr == nil {
			return &quiz, nil
		}
		l.Warn("discarding undecodable cached quiz", zap.String("key", key), zap.Error(jsonErr))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		l.Warn("quiz cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := s.group.Do(link, func() (interface{}, error) {
		quiz, err := s.repo.GetQuizByShareLink(ctx, link)
		if err != nil {
			return nil, domain.NewInternalError("Failed to get quiz", err)
		}
		if quiz == nil || !quiz.IsPublished() {
			return nil, domain.NewNotFoundError("Quiz not found or not published")
		}
		if data, err := json.Marshal(quiz); err == nil {
			if err := s.cache.Set(ctx, key, string(data), s.cfg.CacheTTL); err != nil {
				l.Warn("quiz cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	// Every caller sharing the flight gets its own copy.
	return v.(*domain.Quiz).Clone(), nil
}

func (s *quizService) invalidate(ctx context.Context, quiz *domain.Quiz) {
	if quiz == nil || quiz.ShareLink == "" {
		return
	}
	if err := s.cache.Delete(ctx, cache.QuizByLinkKey(quiz.ShareLink)); err != nil {
		logger.Get().Warn("quiz cache invalidation failed", zap.String("share_link", quiz.ShareLink), zap.Error(err))
	}
}

// recordPayloadError counts container-level payload failures by code.
func recordPayloadError(operation string, err error) {
	var derr *domain.DomainError
	if errors.As(err, &derr) {
		monitoring.PayloadErrors.WithLabelValues(operation, string(derr.Code)).Inc()
	}
}
