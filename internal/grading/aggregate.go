package grading

import (
	"fmt"
	"math"

	"quiz-craft/internal/domain"
)

// Aggregate sums the per-question partial scores and rounds half-up to two
// decimal places. Any total reported by the model is ignored.
func Aggregate(results []domain.QuestionResult) float64 {
	var sum float64
	for _, r := range results {
		sum += r.PartialScore
	}
	return roundHalfUp(sum, 2)
}

func roundHalfUp(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}

// Verify checks the invariants every EvaluationResult must satisfy for quiz.
func Verify(quiz *domain.Quiz, res *domain.EvaluationResult) error {
	if res.MaxScore != len(quiz.Questions) {
		return fmt.Errorf("maxScore %d does not match %d questions", res.MaxScore, len(quiz.Questions))
	}
	for i, r := range res.Results {
		if r.PartialScore < 0 || r.PartialScore > 1 || math.IsNaN(r.PartialScore) {
			return fmt.Errorf("result %d: partialScore %v out of range", i, r.PartialScore)
		}
		q, ok := MatchQuestion(quiz.Questions, r.QuestionID, i)
		if ok && q.Type == domain.QuestionWritten && r.IsCorrect != (r.PartialScore >= WrittenPassThreshold) {
			return fmt.Errorf("result %d: written question %q has isCorrect=%v with partialScore %v", i, q.ID, r.IsCorrect, r.PartialScore)
		}
	}
	if want := Aggregate(res.Results); res.Score != want {
		return fmt.Errorf("score %v does not equal recomputed %v", res.Score, want)
	}
	return nil
}
