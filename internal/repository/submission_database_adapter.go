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

// SubmissionDatabaseAdapter implements domain.SubmissionRepository using sqlx.
type SubmissionDatabaseAdapter struct {
	db *sqlx.DB
}

func NewSubmissionDatabaseAdapter(db *sqlx.DB) *SubmissionDatabaseAdapter {
	return &SubmissionDatabaseAdapter{db: db}
}

// CreateSubmission inserts a graded submission.
func (a *SubmissionDatabaseAdapter) CreateSubmission(ctx context.Context, submission *domain.Submission) error {
	if submission == nil {
		return fmt.Errorf("cannot save nil submission")
	}
	exec := GetExecutor(ctx, a.db)
	row := models.FromDomainSubmission(submission)

	query := exec.Rebind(`INSERT INTO submissions (id, quiz_id, student_name, answers_json, evaluation_json,
		score, max_score, submitted_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, query,
		row.ID, row.QuizID, row.StudentName, row.Answers, row.Evaluation,
		row.Score, row.MaxScore, row.SubmittedAt,
	); err != nil {
		return fmt.Errorf("failed to insert submission %s: %w", row.ID, err)
	}
	return nil
}

func (a *SubmissionDatabaseAdapter) GetSubmissionByID(ctx context.Context, id string) (*domain.Submission, error) {
	exec := GetExecutor(ctx, a.db)
	var row models.Submission
	err := exec.GetContext(ctx, &row, exec.Rebind(`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission %s: %w", id, err)
	}
	return row.ToDomain(), nil
}

func (a *SubmissionDatabaseAdapter) ListSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	return a.list(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY submitted_at DESC`)
}

func (a *SubmissionDatabaseAdapter) ListSubmissionsByQuiz(ctx context.Context, quizID string) ([]*domain.Submission, error) {
	return a.list(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE quiz_id = ? ORDER BY submitted_at DESC`, quizID)
}

func (a *SubmissionDatabaseAdapter) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Submission, error) {
	exec := GetExecutor(ctx, a.db)
	var rows []models.Submission
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	out := make([]*domain.Submission, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

var _ domain.SubmissionRepository = (*SubmissionDatabaseAdapter)(nil)
