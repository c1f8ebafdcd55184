package grading

import (
	"strconv"
	"strings"

	"quiz-craft/internal/domain"
)

// ResolveAnswerText turns index-encoded choice answers into option text.
// Each scalar is kept when it already equals an option, replaced by
// Options[i] when it parses as an in-range index, and passed through
// otherwise. List order is preserved and empty elements are dropped.
func ResolveAnswerText(q domain.Question, raw domain.AnswerValue) domain.AnswerValue {
	if !raw.IsList {
		return domain.TextAnswer(resolveOption(q.Options, raw.Text))
	}
	out := make([]string, 0, len(raw.List))
	for _, item := range raw.List {
		resolved := resolveOption(q.Options, item)
		if resolved == "" {
			continue
		}
		out = append(out, resolved)
	}
	return domain.ListAnswer(out...)
}

func resolveOption(options []string, value string) string {
	for _, opt := range options {
		if opt == value {
			return value
		}
	}
	if idx, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && idx >= 0 && idx < len(options) {
		return options[idx]
	}
	return value
}

// NormalizeAnswer coerces an answer to the cardinality of its question:
// a list for multiple choice, a scalar for single choice and written.
func NormalizeAnswer(q domain.Question, a domain.AnswerValue) domain.AnswerValue {
	switch q.Type {
	case domain.QuestionMultiple:
		if a.IsList {
			return a
		}
		if a.Text == "" {
			return domain.ListAnswer()
		}
		return domain.ListAnswer(a.Text)
	case domain.QuestionSingle:
		if !a.IsList {
			return a
		}
		for _, item := range a.List {
			if item != "" {
				return domain.TextAnswer(item)
			}
		}
		return domain.TextAnswer("")
	case domain.QuestionWritten:
		if !a.IsList {
			return a
		}
		parts := make([]string, 0, len(a.List))
		for _, item := range a.List {
			if item != "" {
				parts = append(parts, item)
			}
		}
		return domain.TextAnswer(strings.Join(parts, ", "))
	}
	return a
}

// PrepareAnswers lines raw answers up with the quiz, one per question in quiz
// order, with cardinality fixed and choice indices resolved to option text.
// Unanswered questions get an empty answer of the right shape.
func PrepareAnswers(quiz *domain.Quiz, answers []domain.StudentAnswer) []domain.StudentAnswer {
	out := make([]domain.StudentAnswer, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		var value domain.AnswerValue
		if a, ok := MatchAnswer(answers, q.ID, i); ok {
			value = a.Answer
		}
		value = ResolveAnswerText(q, NormalizeAnswer(q, value))
		out = append(out, domain.StudentAnswer{QuestionID: q.ID, Answer: value})
	}
	return out
}

// ResolveDisplayRows pairs every question of quiz with the submission's
// matching answer and result. It never fails: missing data stays nil.
func ResolveDisplayRows(quiz *domain.Quiz, sub *domain.Submission) []domain.DisplayRow {
	rows := make([]domain.DisplayRow, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		row := domain.DisplayRow{Index: i, Question: q}

		if sub.Evaluation != nil {
			if r, ok := MatchResult(sub.Evaluation.Results, q.ID, i); ok {
				row.Result = &r
			}
		}
		if a, ok := MatchAnswer(sub.Answers, q.ID, i); ok {
			row.Answer = &a
			row.AnswerText = ResolveAnswerText(q, a.Answer)
		}
		rows = append(rows, row)
	}
	return rows
}
