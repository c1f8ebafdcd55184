package repository

import (
	"context"
	"database/sql"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// Column lists use quoted lowercase aliases so Oracle, which upper-cases
// unquoted identifiers, maps onto the same db tags as Postgres and SQLite.
const (
	quizColumns = `id "id", title "title", description "description", duration_minutes "duration_minutes",
		questions_json "questions_json", status "status", share_link "share_link",
		created_at "created_at", updated_at "updated_at"`

	submissionColumns = `id "id", quiz_id "quiz_id", student_name "student_name", answers_json "answers_json",
		evaluation_json "evaluation_json", score "score", max_score "max_score", submitted_at "submitted_at"`
)
