package grading

import (
	"strings"

	"quiz-craft/internal/domain"
)

// MatchIndex resolves id against items and returns the position of the match.
// An exact, whitespace-trimmed identifier match wins; otherwise the item at
// index is used when it exists. It returns -1 when neither applies.
func MatchIndex[T any](items []T, id string, index int, idOf func(T) string) int {
	key := strings.TrimSpace(id)
	if key != "" {
		for i, item := range items {
			if strings.TrimSpace(idOf(item)) == key {
				return i
			}
		}
	}
	if index >= 0 && index < len(items) {
		return index
	}
	return -1
}

// Match is MatchIndex returning the item itself. ok is false when nothing
// matched, which callers treat as "no data" rather than an error.
func Match[T any](items []T, id string, index int, idOf func(T) string) (T, bool) {
	i := MatchIndex(items, id, index, idOf)
	if i < 0 {
		var zero T
		return zero, false
	}
	return items[i], true
}

func questionID(q domain.Question) string     { return q.ID }
func answerID(a domain.StudentAnswer) string  { return a.QuestionID }
func resultID(r domain.QuestionResult) string { return r.QuestionID }
func rawResultID(e RawElement) string         { return coerceString(e["questionId"]) }

// MatchQuestion finds the canonical question for id.
func MatchQuestion(questions []domain.Question, id string, index int) (domain.Question, bool) {
	return Match(questions, id, index, questionID)
}

// MatchAnswer finds the stored answer for a question id.
func MatchAnswer(answers []domain.StudentAnswer, id string, index int) (domain.StudentAnswer, bool) {
	return Match(answers, id, index, answerID)
}

// MatchResult finds the stored result for a question id.
func MatchResult(results []domain.QuestionResult, id string, index int) (domain.QuestionResult, bool) {
	return Match(results, id, index, resultID)
}
