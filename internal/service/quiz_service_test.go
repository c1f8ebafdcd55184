package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"quiz-craft/internal/cache"
	"quiz-craft/internal/config"
	"quiz-craft/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type quizServiceDeps struct {
	repo  *MockQuizRepository
	tx    *MockTransactionManager
	gen   *MockTextGenerator
	cache *MockCache
}

func newTestQuizService() (*quizService, quizServiceDeps) {
	deps := quizServiceDeps{
		repo:  new(MockQuizRepository),
		tx:    new(MockTransactionManager),
		gen:   new(MockTextGenerator),
		cache: new(MockCache),
	}
	cfg := config.QuizConfig{DefaultDurationMinutes: 30, ShareLinkLength: 12, CacheTTL: 5 * time.Minute}
	svc := NewQuizService(deps.repo, deps.tx, deps.gen, deps.cache, cfg).(*quizService)
	svc.now = func() time.Time { return fixedNow }
	return svc, deps
}

func sampleQuiz() *domain.Quiz {
	correct := domain.TextAnswer("Paris")
	return &domain.Quiz{
		ID:              "quiz-1",
		Title:           "Capitals",
		DurationMinutes: 10,
		Status:          domain.QuizStatusDraft,
		Questions: []domain.Question{
			{ID: "q1", Type: domain.QuestionSingle, Text: "Capital of France?", Options: []string{"Paris", "Rome"}, CorrectAnswer: &correct},
			{ID: "q2", Type: domain.QuestionWritten, Text: "Why is Paris the capital?"},
		},
		CreatedAt: fixedNow.Add(-time.Hour),
		UpdatedAt: fixedNow.Add(-time.Hour),
	}
}

func TestGenerateQuizDraft_Success(t *testing.T) {
	svc, deps := newTestQuizService()
	raw := "```json\n" + `{"title":"Go","description":"basics","questions":[
		{"type":"single","question":"Zero value of int?","options":["0","nil"],"correctAnswer":"0"},
		{"type":"written","question":"What is a goroutine?","options":null,"correctAnswer":"A lightweight thread"}
	]}` + "\n```"

	deps.gen.On("Generate", mock.Anything, mock.MatchedBy(func(req domain.GenerationRequest) bool {
		return req.Operation == domain.OperationGenerate &&
			req.Temperature == generationTemperature &&
			req.System == generationSystemPrompt
	})).Return(raw, nil).Once()

	draft, err := svc.GenerateQuizDraft(context.Background(), "  Go basics  ")
	require.NoError(t, err)
	assert.Equal(t, "Go", draft.Title)
	assert.Equal(t, 30, draft.DurationMinutes)
	require.Len(t, draft.Questions, 2)
	assert.Equal(t, "q1", draft.Questions[0].ID)
	assert.Equal(t, "q2", draft.Questions[1].ID)
	assert.Nil(t, draft.Questions[1].Options)
	deps.gen.AssertExpectations(t)
}

func TestGenerateQuizDraft_EmptyPrompt(t *testing.T) {
	svc, deps := newTestQuizService()

	_, err := svc.GenerateQuizDraft(context.Background(), " ")
	var derr *domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.CodeInvalidInput, derr.Code)
	deps.gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestGenerateQuizDraft_Failures(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		callErr error
		cause   error
	}{
		{name: "llm error", callErr: domain.NewLLMServiceError(errors.New("connection refused")), cause: domain.ErrLLMService},
		{name: "empty", raw: "  ", cause: domain.ErrEmptyResponse},
		{name: "malformed", raw: "{not json", cause: domain.ErrMalformedJSON},
		{name: "missing questions", raw: `{"title":"x"}`, cause: domain.ErrPayloadMissingField},
		{name: "questions not array", raw: `{"questions":"nope"}`, cause: domain.ErrInvalidResultsStructure},
		{name: "no usable questions", raw: `{"questions":[{"type":"single"}]}`, cause: domain.ErrPayloadMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestQuizService()
			deps.gen.On("Generate", mock.Anything, mock.Anything).Return(tt.raw, tt.callErr).Once()

			draft, err := svc.GenerateQuizDraft(context.Background(), "anything")
			assert.Nil(t, draft)
			assert.True(t, errors.Is(err, domain.ErrGenerationFailed))
			assert.True(t, errors.Is(err, tt.cause), "expected cause %v, got %v", tt.cause, err)
		})
	}
}

func TestSaveQuiz_New(t *testing.T) {
	svc, deps := newTestQuizService()
	quiz := sampleQuiz()
	quiz.ID = ""
	quiz.Status = ""
	quiz.CreatedAt = time.Time{}

	deps.repo.On("GetQuizByID", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil).Once()
	deps.repo.On("SaveQuiz", mock.Anything, mock.AnythingOfType("*domain.Quiz")).Return(nil).Once()

	saved, err := svc.SaveQuiz(context.Background(), quiz)
	require.NoError(t, err)
	assert.Len(t, saved.ID, 26)
	assert.Equal(t, domain.QuizStatusDraft, saved.Status)
	assert.Equal(t, fixedNow, saved.CreatedAt)
	assert.Equal(t, fixedNow, saved.UpdatedAt)
	deps.repo.AssertExpectations(t)
	deps.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSaveQuiz_UpdateKeepsPublication(t *testing.T) {
	svc, deps := newTestQuizService()
	existing := sampleQuiz()
	existing.Status = domain.QuizStatusPublished
	existing.ShareLink = "abcdefghijkl"

	update := sampleQuiz()
	update.Status = ""
	update.Title = "Capitals v2"

	deps.repo.On("GetQuizByID", mock.Anything, "quiz-1").Return(existing, nil).Once()
	deps.repo.On("SaveQuiz", mock.Anything, update).Return(nil).Once()
	deps.cache.On("Delete", mock.Anything, cache.QuizByLinkKey("abcdefghijkl")).Return(nil).Twice()

	saved, err := svc.SaveQuiz(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, "Capitals v2", saved.Title)
	assert.Equal(t, domain.QuizStatusPublished, saved.Status)
	assert.Equal(t, "abcdefghijkl", saved.ShareLink)
	assert.Equal(t, existing.CreatedAt, saved.CreatedAt)
	assert.Equal(t, fixedNow, saved.UpdatedAt)
	deps.cache.AssertExpectations(t)
}

func TestSaveQuiz_Invalid(t *testing.T) {
	svc, deps := newTestQuizService()
	quiz := sampleQuiz()
	quiz.Title = ""

	_, err := svc.SaveQuiz(context.Background(), quiz)
	require.Error(t, err)
	deps.repo.AssertNotCalled(t, "SaveQuiz", mock.Anything, mock.Anything)
}

func TestGetQuiz_NotFound(t *testing.T) {
	svc, deps := newTestQuizService()
	deps.repo.On("GetQuizByID", mock.Anything, "missing").Return(nil, nil).Once()

	_, err := svc.GetQuiz(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrQuizNotFound))
}

func TestListQuizzes_NeverNil(t *testing.T) {
	svc, deps := newTestQuizService()
	deps.repo.On("ListQuizzes", mock.Anything).Return(nil, nil).Once()

	quizzes, err := svc.ListQuizzes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, quizzes)
	assert.Empty(t, quizzes)
}

func TestDeleteQuiz(t *testing.T) {
	t.Run("deletes and invalidates", func(t *testing.T) {
		svc, deps := newTestQuizService()
		quiz := sampleQuiz()
		quiz.ShareLink = "abcdefghijkl"

		deps.tx.On("WithTransaction", mock.Anything).Once()
		deps.repo.On("GetQuizByID", mock.Anything, "quiz-1").Return(quiz, nil).Once()
		deps.repo.On("DeleteQuiz", mock.Anything, "quiz-1").Return(true, nil).Once()
		deps.cache.On("Delete", mock.Anything, cache.QuizByLinkKey("abcdefghijkl")).Return(nil).Once()

		require.NoError(t, svc.DeleteQuiz(context.Background(), "quiz-1"))
		deps.repo.AssertExpectations(t)
		deps.cache.AssertExpectations(t)
	})

	t.Run("unknown quiz", func(t *testing.T) {
		svc, deps := newTestQuizService()
		deps.tx.On("WithTransaction", mock.Anything).Once()
		deps.repo.On("GetQuizByID", mock.Anything, "missing").Return(nil, nil).Once()

		err := svc.DeleteQuiz(context.Background(), "missing")
		assert.True(t, errors.Is(err, domain.ErrQuizNotFound))
		deps.repo.AssertNotCalled(t, "DeleteQuiz", mock.Anything, mock.Anything)
	})
}

func TestPublishQuiz_RetriesOnCollision(t *testing.T) {
	svc, deps := newTestQuizService()
	links := []string{"AAAAAAAAAAAA", "BBBBBBBBBBBB"}
	svc.newLink = func(n int) (string, error) {
		assert.Equal(t, 12, n)
		link := links[0]
		links = links[1:]
		return link, nil
	}

	quiz := sampleQuiz()
	deps.repo.On("GetQuizByID", mock.Anything, "quiz-1").Return(quiz, nil).Once()
	deps.repo.On("GetQuizByShareLink", mock.Anything, "AAAAAAAAAAAA").Return(&domain.Quiz{ID: "other"}, nil).Once()
	deps.repo.On("GetQuizByShareLink", mock.Anything, "BBBBBBBBBBBB").Return(nil, nil).Once()
	deps.repo.On("SaveQuiz", mock.Anything, quiz).Return(nil).Once()
	deps.cache.On("Delete", mock.Anything, cache.QuizByLinkKey("BBBBBBBBBBBB")).Return(nil).Once()

	published, err := svc.PublishQuiz(context.Background(), "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, domain.QuizStatusPublished, published.Status)
	assert.Equal(t, "BBBBBBBBBBBB", published.ShareLink)
	deps.repo.AssertExpectations(t)
}

func TestPublishQuiz_KeepsExistingLink(t *testing.T) {
	svc, deps := newTestQuizService()
	svc.newLink = func(int) (string, error) {
		t.Fatal("a new link must not be generated")
		return "", nil
	}

	quiz := sampleQuiz()
	quiz.ShareLink = "abcdefghijkl"
	deps.repo.On("GetQuizByID", mock.Anything, "quiz-1").Return(quiz, nil).Once()
	deps.repo.On("SaveQuiz", mock.Anything, quiz).Return(nil).Once()
	deps.cache.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

	published, err := svc.PublishQuiz(context.Background(), "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghijkl", published.ShareLink)
}

func TestGetPublishedQuizByLink(t *testing.T) {
	link := "abcdefghijkl"
	key := cache.QuizByLinkKey(link)

	t.Run("cache hit", func(t *testing.T) {
		svc, deps := newTestQuizService()
		quiz := sampleQuiz()
		quiz.Status = domain.QuizStatusPublished
		data, _ := json.Marshal(quiz)
		deps.cache.On("Get", mock.Anything, key).Return(string(data), nil).Once()

		got, err := svc.GetPublishedQuizByLink(context.Background(), link)
		require.NoError(t, err)
		assert.Equal(t, "quiz-1", got.ID)
		deps.repo.AssertNotCalled(t, "GetQuizByShareLink", mock.Anything, mock.Anything)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		svc, deps := newTestQuizService()
		quiz := sampleQuiz()
		quiz.Status = domain.QuizStatusPublished
		quiz.ShareLink = link
		deps.cache.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss).Once()
		deps.repo.On("GetQuizByShareLink", mock.Anything, link).Return(quiz, nil).Once()
		deps.cache.On("Set", mock.Anything, key, mock.AnythingOfType("string"), 5*time.Minute).Return(nil).Once()

		got, err := svc.GetPublishedQuizByLink(context.Background(), link)
		require.NoError(t, err)
		assert.Equal(t, quiz, got)
		assert.NotSame(t, quiz, got)
		got.Questions[0].Options[0] = "Berlin"
		assert.Equal(t, "Paris", quiz.Questions[0].Options[0])
		deps.cache.AssertExpectations(t)
	})

	t.Run("draft is hidden", func(t *testing.T) {
		svc, deps := newTestQuizService()
		quiz := sampleQuiz()
		quiz.ShareLink = link
		deps.cache.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss).Once()
		deps.repo.On("GetQuizByShareLink", mock.Anything, link).Return(quiz, nil).Once()

		_, err := svc.GetPublishedQuizByLink(context.Background(), link)
		var derr *domain.DomainError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, domain.CodeNotFound, derr.Code)
		deps.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache failure falls through", func(t *testing.T) {
		svc, deps := newTestQuizService()
		quiz := sampleQuiz()
		quiz.Status = domain.QuizStatusPublished
		deps.cache.On("Get", mock.Anything, key).Return("", errors.New("redis down")).Once()
		deps.repo.On("GetQuizByShareLink", mock.Anything, link).Return(quiz, nil).Once()
		deps.cache.On("Set", mock.Anything, key, mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

		got, err := svc.GetPublishedQuizByLink(context.Background(), link)
		require.NoError(t, err)
		assert.Equal(t, "quiz-1", got.ID)
	})
}
