package domain

import "context"

// QuizRepository defines the interface for quiz persistence
type QuizRepository interface {
	// SaveQuiz inserts the quiz or replaces the stored quiz with the same ID
	SaveQuiz(ctx context.Context, quiz *Quiz) error

	// GetQuizByID retrieves a quiz by its ID. Returns nil, nil when absent.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)

	// GetQuizByShareLink retrieves a quiz by its share link. Returns nil, nil when absent.
	GetQuizByShareLink(ctx context.Context, link string) (*Quiz, error)

	// ListQuizzes returns all quizzes, most recently updated first
	ListQuizzes(ctx context.Context) ([]*Quiz, error)

	// DeleteQuiz removes a quiz. Returns false when nothing was deleted.
	DeleteQuiz(ctx context.Context, id string) (bool, error)
}

// SubmissionRepository defines the interface for submission persistence
type SubmissionRepository interface {
	// CreateSubmission persists a graded submission
	CreateSubmission(ctx context.Context, submission *Submission) error

	// GetSubmissionByID retrieves a submission. Returns nil, nil when absent.
	GetSubmissionByID(ctx context.Context, id string) (*Submission, error)

	// ListSubmissions returns all submissions, newest first
	ListSubmissions(ctx context.Context) ([]*Submission, error)

	// ListSubmissionsByQuiz returns the submissions of one quiz, newest first
	ListSubmissionsByQuiz(ctx context.Context, quizID string) ([]*Submission, error)
}

// TransactionManager runs fn inside a database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
