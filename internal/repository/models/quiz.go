package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"quiz-craft/internal/domain"
	"quiz-craft/internal/util"
)

// JSON stores V as a JSON text column (TEXT in Postgres/SQLite, CLOB in Oracle).
type JSON[T any] struct {
	V T
}

// Value implements the driver.Valuer interface
func (j JSON[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface. NULL and empty text leave V at its zero value.
func (j *JSON[T]) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case fmt.Stringer:
		data = []byte(v.String())
	default:
		return fmt.Errorf("JSON Scan: unsupported type %T", value)
	}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, &j.V)
}

// Quiz is the quizzes table row.
type Quiz struct {
	ID              string                  `db:"id"`
	Title           string                  `db:"title"`
	Description     sql.NullString          `db:"description"`
	DurationMinutes int                     `db:"duration_minutes"`
	Questions       JSON[[]domain.Question] `db:"questions_json"`
	Status          string                  `db:"status"`
	ShareLink       sql.NullString          `db:"share_link"`
	CreatedAt       int64                   `db:"created_at"`
	UpdatedAt       int64                   `db:"updated_at"`
}

// Submission is the submissions table row. Score and MaxScore duplicate the
// evaluation for listing without decoding it.
type Submission struct {
	ID          string                         `db:"id"`
	QuizID      string                         `db:"quiz_id"`
	StudentName string                         `db:"student_name"`
	Answers     JSON[[]domain.StudentAnswer]   `db:"answers_json"`
	Evaluation  JSON[*domain.EvaluationResult] `db:"evaluation_json"`
	Score       float64                        `db:"score"`
	MaxScore    int                            `db:"max_score"`
	SubmittedAt int64                          `db:"submitted_at"`
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// FromDomainQuiz converts a domain quiz into a row.
func FromDomainQuiz(q *domain.Quiz) *Quiz {
	return &Quiz{
		ID:              q.ID,
		Title:           q.Title,
		Description:     util.StringToNullString(q.Description),
		DurationMinutes: q.DurationMinutes,
		Questions:       JSON[[]domain.Question]{V: q.Questions},
		Status:          string(q.Status),
		ShareLink:       util.StringToNullString(q.ShareLink),
		CreatedAt:       q.CreatedAt.UnixMilli(),
		UpdatedAt:       q.UpdatedAt.UnixMilli(),
	}
}

// ToDomain converts the row back into a domain quiz.
func (m *Quiz) ToDomain() *domain.Quiz {
	questions := m.Questions.V
	if questions == nil {
		questions = []domain.Question{}
	}
	return &domain.Quiz{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description.String,
		DurationMinutes: m.DurationMinutes,
		Questions:       questions,
		Status:          domain.QuizStatus(m.Status),
		ShareLink:       m.ShareLink.String,
		CreatedAt:       fromMillis(m.CreatedAt),
		UpdatedAt:       fromMillis(m.UpdatedAt),
	}
}

// FromDomainSubmission converts a domain submission into a row.
func FromDomainSubmission(s *domain.Submission) *Submission {
	row := &Submission{
		ID:          s.ID,
		QuizID:      s.QuizID,
		StudentName: s.StudentName,
		Answers:     JSON[[]domain.StudentAnswer]{V: s.Answers},
		Evaluation:  JSON[*domain.EvaluationResult]{V: s.Evaluation},
		SubmittedAt: s.SubmittedAt.UnixMilli(),
	}
	if s.Evaluation != nil {
		row.Score = s.Evaluation.Score
		row.MaxScore = s.Evaluation.MaxScore
	}
	return row
}

// ToDomain converts the row back into a domain submission.
func (m *Submission) ToDomain() *domain.Submission {
	answers := m.Answers.V
	if answers == nil {
		answers = []domain.StudentAnswer{}
	}
	return &domain.Submission{
		ID:          m.ID,
		QuizID:      m.QuizID,
		StudentName: m.StudentName,
		Answers:     answers,
		SubmittedAt: fromMillis(m.SubmittedAt),
		Evaluation:  m.Evaluation.V,
	}
}
