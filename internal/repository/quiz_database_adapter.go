package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-craft/internal/domain"
	"quiz-craft/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) *QuizDatabaseAdapter {
	return &QuizDatabaseAdapter{db: db}
}

// SaveQuiz inserts the quiz, or replaces every column of the stored row with the same ID.
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	exec := GetExecutor(ctx, a.db)
	row := models.FromDomainQuiz(quiz)

	var count int
	if err := exec.GetContext(ctx, &count, exec.Rebind(`SELECT COUNT(*) FROM quizzes WHERE id = ?`), row.ID); err != nil {
		return fmt.Errorf("failed to check quiz %s: %w", row.ID, err)
	}

	if count > 0 {
		query := exec.Rebind(`UPDATE quizzes SET title = ?, description = ?, duration_minutes = ?, questions_json = ?,
			status = ?, share_link = ?, updated_at = ? WHERE id = ?`)
		if _, err := exec.ExecContext(ctx, query,
			row.Title, row.Description, row.DurationMinutes, row.Questions,
			row.Status, row.ShareLink, row.UpdatedAt, row.ID,
		); err != nil {
			return fmt.Errorf("failed to update quiz %s: %w", row.ID, err)
		}
		return nil
	}

	query := exec.Rebind(`INSERT INTO quizzes (id, title, description, duration_minutes, questions_json,
		status, share_link, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, query,
		row.ID, row.Title, row.Description, row.DurationMinutes, row.Questions,
		row.Status, row.ShareLink, row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert quiz %s: %w", row.ID, err)
	}
	return nil
}

// GetQuizByID returns nil, nil when the quiz does not exist.
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	return a.getOne(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = ?`, id)
}

// GetQuizByShareLink returns nil, nil when no quiz carries link.
func (a *QuizDatabaseAdapter) GetQuizByShareLink(ctx context.Context, link string) (*domain.Quiz, error) {
	return a.getOne(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE share_link = ?`, link)
}

func (a *QuizDatabaseAdapter) getOne(ctx context.Context, query string, arg string) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)
	var row models.Quiz
	if err := exec.GetContext(ctx, &row, exec.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz %s: %w", arg, err)
	}
	return row.ToDomain(), nil
}

func (a *QuizDatabaseAdapter) ListQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)
	var rows []models.Quiz
	if err := exec.SelectContext(ctx, &rows, `SELECT `+quizColumns+` FROM quizzes ORDER BY updated_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	quizzes := make([]*domain.Quiz, 0, len(rows))
	for i := range rows {
		quizzes = append(quizzes, rows[i].ToDomain())
	}
	return quizzes, nil
}

// DeleteQuiz removes the quiz and its submissions. Call it inside a transaction.
func (a *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, id string) (bool, error) {
	exec := GetExecutor(ctx, a.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM submissions WHERE quiz_id = ?`), id); err != nil {
		return false, fmt.Errorf("failed to delete submissions of quiz %s: %w", id, err)
	}
	res, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM quizzes WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete quiz %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for quiz %s: %w", id, err)
	}
	return n > 0, nil
}

var _ domain.QuizRepository = (*QuizDatabaseAdapter)(nil)
