package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// QuestionType is the answer format of a question
type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
	QuestionWritten  QuestionType = "written"
)

// IsChoice reports whether answers are picked from Options.
func (t QuestionType) IsChoice() bool {
	return t == QuestionSingle || t == QuestionMultiple
}

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	return t.IsChoice() || t == QuestionWritten
}

// QuizStatus controls whether a quiz is reachable by its share link
type QuizStatus string

const (
	QuizStatusDraft     QuizStatus = "draft"
	QuizStatusPublished QuizStatus = "published"
)

// AnswerValue holds either a single string or an ordered list of strings.
// On the wire it is a JSON string or a JSON array.
type AnswerValue struct {
	Text   string
	List   []string
	IsList bool
}

// TextAnswer builds a scalar answer
func TextAnswer(s string) AnswerValue {
	return AnswerValue{Text: s}
}

// ListAnswer builds a list answer
func ListAnswer(items ...string) AnswerValue {
	if items == nil {
		items = []string{}
	}
	return AnswerValue{List: items, IsList: true}
}

// IsEmpty reports whether the answer carries no content.
func (a AnswerValue) IsEmpty() bool {
	if a.IsList {
		for _, item := range a.List {
			if item != "" {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(a.Text) == ""
}

// Values returns the answer as a slice regardless of its shape.
func (a AnswerValue) Values() []string {
	if a.IsList {
		return a.List
	}
	if a.Text == "" {
		return nil
	}
	return []string{a.Text}
}

// String renders the answer for humans.
func (a AnswerValue) String() string {
	if a.IsList {
		return strings.Join(a.List, ", ")
	}
	return a.Text
}

// MarshalJSON implements json.Marshaler
func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if a.IsList {
		list := a.List
		if list == nil {
			list = []string{}
		}
		return json.Marshal(list)
	}
	return json.Marshal(a.Text)
}

// UnmarshalJSON accepts strings, numbers, booleans, null and arrays of those.
func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	v, err := AnswerValueFrom(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// AnswerValueFrom converts a decoded JSON value into an AnswerValue.
func AnswerValueFrom(raw interface{}) (AnswerValue, error) {
	switch v := raw.(type) {
	case nil:
		return AnswerValue{}, nil
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, err := cast.ToStringE(item)
			if err != nil {
				return AnswerValue{}, fmt.Errorf("answer list element: %w", err)
			}
			items = append(items, s)
		}
		return ListAnswer(items...), nil
	case []string:
		return ListAnswer(v...), nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return AnswerValue{}, fmt.Errorf("answer value: %w", err)
		}
		return TextAnswer(s), nil
	}
}

// Question is one item of a quiz
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Text          string       `json:"question"`
	Options       []string     `json:"options"`
	CorrectAnswer *AnswerValue `json:"correctAnswer"`
}

// Validate checks the options invariant: options are present only for choice questions.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question %q: text is required", q.ID)
	}
	if !q.Type.Valid() {
		return fmt.Errorf("question %q: unknown type %q", q.ID, q.Type)
	}
	if q.Type.IsChoice() && len(q.Options) == 0 {
		return fmt.Errorf("question %q: %s question requires options", q.ID, q.Type)
	}
	if !q.Type.IsChoice() && q.Options != nil {
		return fmt.Errorf("question %q: written question must not have options", q.ID)
	}
	return nil
}

// Quiz is an authored quiz
type Quiz struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"durationMinutes"`
	Questions       []Question `json:"questions"`
	Status          QuizStatus `json:"status"`
	ShareLink       string     `json:"shareLink,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Validate validates the quiz
func (q *Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return NewInvalidInputError("title is required")
	}
	if q.DurationMinutes <= 0 {
		return NewInvalidInputError("durationMinutes must be positive")
	}
	if len(q.Questions) == 0 {
		return NewInvalidInputError("at least one question is required")
	}
	seen := make(map[string]struct{}, len(q.Questions))
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return NewError(CodeInvalidInput, "invalid question", err)
		}
		id := strings.TrimSpace(q.Questions[i].ID)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			return NewInvalidInputError(fmt.Sprintf("duplicate question id %q", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

// IsPublished reports whether respondents may open the quiz.
func (q *Quiz) IsPublished() bool {
	return q.Status == QuizStatusPublished
}

// Clone returns a deep copy of q.
func (q *Quiz) Clone() *Quiz {
	if q == nil {
		return nil
	}
	c := *q
	if q.Questions != nil {
		c.Questions = make([]Question, len(q.Questions))
		for i, question := range q.Questions {
			c.Questions[i] = question.clone()
		}
	}
	return &c
}

func (q Question) clone() Question {
	if q.Options != nil {
		q.Options = append([]string(nil), q.Options...)
	}
	if q.CorrectAnswer != nil {
		ca := *q.CorrectAnswer
		if ca.List != nil {
			ca.List = append([]string(nil), ca.List...)
		}
		q.CorrectAnswer = &ca
	}
	return q
}

// QuizDraft is generated, not yet saved quiz content.
type QuizDraft struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"durationMinutes"`
	Questions       []Question `json:"questions"`
}

// StudentAnswer is a respondent's raw answer to one question
type StudentAnswer struct {
	QuestionID string      `json:"questionId"`
	Answer     AnswerValue `json:"answer"`
}

// QuestionResult is the graded outcome for one question
type QuestionResult struct {
	QuestionID   string  `json:"questionId"`
	IsCorrect    bool    `json:"isCorrect"`
	Feedback     string  `json:"feedback"`
	PartialScore float64 `json:"partialScore"`
}

// EvaluationResult is the trusted outcome of grading a submission
type EvaluationResult struct {
	Score    float64          `json:"score"`
	MaxScore int              `json:"maxScore"`
	Results  []QuestionResult `json:"results"`
}

// Submission is one respondent's attempt at a quiz
type Submission struct {
	ID          string            `json:"id"`
	QuizID      string            `json:"quizId"`
	StudentName string            `json:"studentName"`
	Answers     []StudentAnswer   `json:"answers"`
	SubmittedAt time.Time         `json:"submittedAt"`
	Evaluation  *EvaluationResult `json:"evaluation,omitempty"`
}

// DisplayRow pairs a question with its stored answer and result for rendering.
type DisplayRow struct {
	Index      int             `json:"index"`
	Question   Question        `json:"question"`
	Result     *QuestionResult `json:"result,omitempty"`
	Answer     *StudentAnswer  `json:"answer,omitempty"`
	AnswerText AnswerValue     `json:"answerText"`
}
