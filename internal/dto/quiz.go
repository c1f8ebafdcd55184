package dto

import (
	"time"

	"quiz-craft/internal/domain"
)

// GenerateQuizRequest asks for a quiz draft
// @Description Free-text description of the quiz to generate
type GenerateQuizRequest struct {
	Prompt string `json:"prompt"`
}

// QuizRequest is the body of a quiz create or update
// @Description Quiz to store. An empty id creates a new quiz.
type QuizRequest struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	DurationMinutes int               `json:"durationMinutes"`
	Questions       []domain.Question `json:"questions"`
	Status          string            `json:"status,omitempty"`
}

// ToDomain converts the request into a domain quiz
func (r *QuizRequest) ToDomain() *domain.Quiz {
	return &domain.Quiz{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Questions:       r.Questions,
		Status:          domain.QuizStatus(r.Status),
	}
}

// EvaluateRequest grades answers against a quiz that need not be stored
type EvaluateRequest struct {
	Quiz    QuizRequest            `json:"quiz"`
	Answers []domain.StudentAnswer `json:"answers"`
}

// SubmitRequest is a respondent's attempt
type SubmitRequest struct {
	StudentName string                 `json:"studentName"`
	Answers     []domain.StudentAnswer `json:"answers"`
}

// QuizResponse is the author's view of a quiz
type QuizResponse struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	DurationMinutes int               `json:"durationMinutes"`
	Questions       []domain.Question `json:"questions"`
	Status          string            `json:"status"`
	ShareLink       string            `json:"shareLink,omitempty"`
	CreatedAt       int64             `json:"createdAt"`
	UpdatedAt       int64             `json:"updatedAt"`
}

// PublicQuestion is a question as respondents see it: no correct answer.
type PublicQuestion struct {
	ID      string              `json:"id"`
	Type    domain.QuestionType `json:"type"`
	Text    string              `json:"question"`
	Options []string            `json:"options"`
}

// PublicQuizResponse is the respondent's view of a published quiz
type PublicQuizResponse struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	DurationMinutes int              `json:"durationMinutes"`
	Questions       []PublicQuestion `json:"questions"`
	ShareLink       string           `json:"shareLink"`
}

// SubmissionResponse is a stored submission
type SubmissionResponse struct {
	ID          string                   `json:"id"`
	QuizID      string                   `json:"quizId"`
	StudentName string                   `json:"studentName"`
	Answers     []domain.StudentAnswer   `json:"answers"`
	SubmittedAt int64                    `json:"submittedAt"`
	Evaluation  *domain.EvaluationResult `json:"evaluation,omitempty"`
}

// SubmissionDetailsResponse is a submission with its quiz and display rows
type SubmissionDetailsResponse struct {
	Submission SubmissionResponse  `json:"submission"`
	Quiz       QuizResponse        `json:"quiz"`
	Rows       []domain.DisplayRow `json:"rows"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports dependency status
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

func unixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// NewQuizResponse builds the author view of q
func NewQuizResponse(q *domain.Quiz) QuizResponse {
	questions := q.Questions
	if questions == nil {
		questions = []domain.Question{}
	}
	return QuizResponse{
		ID:              q.ID,
		Title:           q.Title,
		Description:     q.Description,
		DurationMinutes: q.DurationMinutes,
		Questions:       questions,
		Status:          string(q.Status),
		ShareLink:       q.ShareLink,
		CreatedAt:       unixMillis(q.CreatedAt),
		UpdatedAt:       unixMillis(q.UpdatedAt),
	}
}

// NewQuizListResponse builds author views for a list of quizzes
func NewQuizListResponse(quizzes []*domain.Quiz) []QuizResponse {
	out := make([]QuizResponse, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, NewQuizResponse(q))
	}
	return out
}

// NewPublicQuizResponse builds the respondent view of q
func NewPublicQuizResponse(q *domain.Quiz) PublicQuizResponse {
	questions := make([]PublicQuestion, 0, len(q.Questions))
	for _, question := range q.Questions {
		questions = append(questions, PublicQuestion{
			ID:      question.ID,
			Type:    question.Type,
			Text:    question.Text,
			Options: question.Options,
		})
	}
	return PublicQuizResponse{
		ID:              q.ID,
		Title:           q.Title,
		Description:     q.Description,
		DurationMinutes: q.DurationMinutes,
		Questions:       questions,
		ShareLink:       q.ShareLink,
	}
}

// NewSubmissionResponse converts a domain submission
func NewSubmissionResponse(s *domain.Submission) SubmissionResponse {
	answers := s.Answers
	if answers == nil {
		answers = []domain.StudentAnswer{}
	}
	return SubmissionResponse{
		ID:          s.ID,
		QuizID:      s.QuizID,
		StudentName: s.StudentName,
		Answers:     answers,
		SubmittedAt: unixMillis(s.SubmittedAt),
		Evaluation:  s.Evaluation,
	}
}

// NewSubmissionListResponse converts a list of submissions
func NewSubmissionListResponse(subs []*domain.Submission) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, NewSubmissionResponse(s))
	}
	return out
}
