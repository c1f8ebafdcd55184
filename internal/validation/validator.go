package validation

import (
	"fmt"
	"regexp"
	"strings"

	"quiz-craft/internal/domain"
	"quiz-craft/internal/dto"
)

const (
	maxPromptLength      = 4000
	maxStudentNameLength = 100
	maxAnswerLength      = 5000
	maxQuestions         = 100
	maxDurationMinutes   = 600
)

var (
	validID        = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	validShareLink = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// Validator provides request validation functionality
type Validator struct {
	shareLinkLength int
}

// NewValidator creates a new validator instance. shareLinkLength is the
// exact length of issued share links.
func NewValidator(shareLinkLength int) *Validator {
	return &Validator{shareLinkLength: shareLinkLength}
}

// ValidateGenerateRequest validates a draft generation request
func (v *Validator) ValidateGenerateRequest(req *dto.GenerateQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		errors = append(errors, domain.NewMissingFieldError("prompt"))
	} else if len(prompt) > maxPromptLength {
		errors = append(errors, domain.NewOutOfRangeError("prompt", len(prompt), 1, maxPromptLength))
	}
	return errors
}

// ValidateQuizRequest validates the shape of a quiz before it is stored or graded.
// Deeper invariants are enforced by domain.Quiz.Validate.
func (v *Validator) ValidateQuizRequest(req *dto.QuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.ID != "" && !validID.MatchString(req.ID) {
		errors = append(errors, domain.NewInvalidFormatError("id", req.ID))
	}
	if strings.TrimSpace(req.Title) == "" {
		errors = append(errors, domain.NewMissingFieldError("title"))
	}
	if req.DurationMinutes < 1 || req.DurationMinutes > maxDurationMinutes {
		errors = append(errors, domain.NewOutOfRangeError("durationMinutes", req.DurationMinutes, 1, maxDurationMinutes))
	}
	switch req.Status {
	case "", string(domain.QuizStatusDraft), string(domain.QuizStatusPublished):
	default:
		errors = append(errors, domain.NewInvalidFormatError("status", req.Status))
	}

	if len(req.Questions) == 0 {
		errors = append(errors, domain.NewMissingFieldError("questions"))
	} else if len(req.Questions) > maxQuestions {
		errors = append(errors, domain.NewOutOfRangeError("questions", len(req.Questions), 1, maxQuestions))
	}
	for i, q := range req.Questions {
		field := fmt.Sprintf("questions[%d]", i)
		if strings.TrimSpace(q.Text) == "" {
			errors = append(errors, domain.NewMissingFieldError(field+".question"))
		}
		if !q.Type.Valid() {
			errors = append(errors, domain.NewInvalidFormatError(field+".type", q.Type))
		} else if q.Type.IsChoice() && len(q.Options) == 0 {
			errors = append(errors, domain.NewMissingFieldError(field+".options"))
		}
	}
	return errors
}

// ValidateEvaluateRequest validates an ad-hoc grading request
func (v *Validator) ValidateEvaluateRequest(req *dto.EvaluateRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(req.Quiz.Questions) == 0 {
		errors = append(errors, domain.NewMissingFieldError("quiz.questions"))
	}
	if req.Answers == nil {
		errors = append(errors, domain.NewMissingFieldError("answers"))
	}
	return append(errors, validateAnswers(req.Answers)...)
}

// ValidateSubmitRequest validates a respondent submission
func (v *Validator) ValidateSubmitRequest(req *dto.SubmitRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	name := strings.TrimSpace(req.StudentName)
	if name == "" {
		errors = append(errors, domain.NewMissingFieldError("studentName"))
	} else if len(name) > maxStudentNameLength {
		errors = append(errors, domain.NewOutOfRangeError("studentName", len(name), 1, maxStudentNameLength))
	}
	if req.Answers == nil {
		errors = append(errors, domain.NewMissingFieldError("answers"))
	}
	return append(errors, validateAnswers(req.Answers)...)
}

// ValidateID validates a quiz or submission identifier
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !validID.MatchString(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}

// ValidateShareLink validates a share link path parameter
func (v *Validator) ValidateShareLink(link string) domain.ValidationErrors {
	if link == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("link")}
	}
	if len(link) != v.shareLinkLength || !validShareLink.MatchString(link) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("link", link)}
	}
	return nil
}

func validateAnswers(answers []domain.StudentAnswer) domain.ValidationErrors {
	var errors domain.ValidationErrors
	for i, a := range answers {
		size := 0
		for _, s := range a.Answer.Values() {
			size += len(s)
		}
		if size > maxAnswerLength {
			errors = append(errors, domain.NewOutOfRangeError(fmt.Sprintf("answers[%d].answer", i), size, 0, maxAnswerLength))
		}
	}
	return errors
}
