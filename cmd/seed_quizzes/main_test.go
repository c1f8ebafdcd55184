package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quiz-craft/internal/adapter"
	"quiz-craft/internal/config"
	"quiz-craft/internal/database"
	"quiz-craft/internal/domain"
	"quiz-craft/internal/dto"
	"quiz-craft/internal/repository"
	"quiz-craft/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedQuiz_SampleFile(t *testing.T) {
	ctx := context.Background()
	db, err := database.Connect(ctx, database.DriverSQLite, filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.RunMigrations(ctx, db.DB, database.DriverSQLite))

	data, err := os.ReadFile(filepath.Join("..", "..", defaultSeedFile))
	require.NoError(t, err)
	var quizzes []dto.QuizRequest
	require.NoError(t, json.Unmarshal(data, &quizzes))
	require.NotEmpty(t, quizzes)

	repo := repository.NewQuizDatabaseAdapter(db)
	svc := service.NewQuizService(repo, repository.NewTransactionManagerAdapter(db), nil, adapter.NoopCache{},
		config.QuizConfig{DefaultDurationMinutes: 30, ShareLinkLength: 12, CacheTTL: time.Minute})

	for i := range quizzes {
		require.NoError(t, seedQuiz(ctx, svc, &quizzes[i], true), quizzes[i].Title)
	}

	stored, err := repo.ListQuizzes(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, len(quizzes))
	for _, q := range stored {
		assert.Equal(t, domain.QuizStatusPublished, q.Status)
		assert.Len(t, q.ShareLink, 12)
	}
}

func TestSeedQuiz_RejectsInvalidQuiz(t *testing.T) {
	ctx := context.Background()
	db, err := database.Connect(ctx, database.DriverSQLite, filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.RunMigrations(ctx, db.DB, database.DriverSQLite))

	svc := service.NewQuizService(repository.NewQuizDatabaseAdapter(db), repository.NewTransactionManagerAdapter(db),
		nil, adapter.NoopCache{}, config.QuizConfig{ShareLinkLength: 12})

	err = seedQuiz(ctx, svc, &dto.QuizRequest{Title: "No questions", DurationMinutes: 5}, false)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidInput, domainErr.Code)
}
