package grading

import (
	"math"

	"quiz-craft/internal/domain"

	"github.com/spf13/cast"
)

// WrittenPassThreshold is the minimum partial score a written answer needs
// to earn any credit. It is a fixed policy, not configurable per quiz.
const WrittenPassThreshold = 0.4

// NormalizeRawResult repairs one raw grading entry and applies the
// type-specific credit policy for q. q may be nil when no canonical question
// could be matched; then only defaulting and clamping apply.
func NormalizeRawResult(raw RawElement, q *domain.Question) domain.QuestionResult {
	r := domain.QuestionResult{
		QuestionID: coerceString(raw["questionId"]),
		IsCorrect:  coerceBool(raw["isCorrect"]),
		Feedback:   coerceString(raw["feedback"]),
	}
	if r.Feedback == "" {
		r.Feedback = coerceString(raw["feedbackText"])
	}

	score, ok := coerceNumber(raw["partialScore"])
	if !ok {
		score = defaultScore(r.IsCorrect)
	}
	r.PartialScore = score
	return applyCreditPolicy(r, q)
}

// NormalizeResult re-applies the credit policy to an already typed result.
// Normalizing a normalized result returns it unchanged.
func NormalizeResult(r domain.QuestionResult, q *domain.Question) domain.QuestionResult {
	if math.IsNaN(r.PartialScore) {
		r.PartialScore = defaultScore(r.IsCorrect)
	}
	return applyCreditPolicy(r, q)
}

func applyCreditPolicy(r domain.QuestionResult, q *domain.Question) domain.QuestionResult {
	r.PartialScore = clamp01(r.PartialScore)
	if q == nil || q.Type != domain.QuestionWritten {
		return r
	}
	if r.PartialScore < WrittenPassThreshold {
		r.PartialScore = 0
		r.IsCorrect = false
	} else {
		r.IsCorrect = true
	}
	return r
}

func defaultScore(isCorrect bool) float64 {
	if isCorrect {
		return 1.0
	}
	return 0.0
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func coerceString(v interface{}) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

func coerceBool(v interface{}) bool {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}

// coerceNumber reports ok=false when the value is absent or not a usable number.
func coerceNumber(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
