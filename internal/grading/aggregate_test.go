package grading

import (
	"testing"

	"quiz-craft/internal/domain"

	"github.com/stretchr/testify/assert"
)

func results(scores ...float64) []domain.QuestionResult {
	out := make([]domain.QuestionResult, 0, len(scores))
	for _, s := range scores {
		out = append(out, domain.QuestionResult{PartialScore: s})
	}
	return out
}

func TestAggregate(t *testing.T) {
	assert.Equal(t, 0.0, Aggregate(nil))
	assert.Equal(t, 1.5, Aggregate(results(1, 0.5)))
	assert.Equal(t, 1.0, Aggregate(results(0.333, 0.333, 0.333)))
	assert.Equal(t, 0.13, Aggregate(results(0.125)))
	assert.Equal(t, 2.67, Aggregate(results(1, 1, 0.6666)))
}

func TestVerify(t *testing.T) {
	quiz := &domain.Quiz{Questions: []domain.Question{singleQ, writtenQ}}

	ok := &domain.EvaluationResult{Score: 1.5, MaxScore: 2, Results: []domain.QuestionResult{
		{QuestionID: "q1", IsCorrect: true, PartialScore: 1},
		{QuestionID: "q3", IsCorrect: true, PartialScore: 0.5},
	}}
	assert.NoError(t, Verify(quiz, ok))

	badMax := *ok
	badMax.MaxScore = 5
	assert.Error(t, Verify(quiz, &badMax))

	badScore := *ok
	badScore.Score = 100
	assert.Error(t, Verify(quiz, &badScore))

	badWritten := &domain.EvaluationResult{Score: 1.3, MaxScore: 2, Results: []domain.QuestionResult{
		{QuestionID: "q1", IsCorrect: true, PartialScore: 1},
		{QuestionID: "q3", IsCorrect: true, PartialScore: 0.3},
	}}
	assert.Error(t, Verify(quiz, badWritten))
}
