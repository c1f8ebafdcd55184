package service

import (
	"encoding/json"
	"fmt"

	"quiz-craft/internal/domain"
)

const (
	generationSystemPrompt = "You are an AI quiz generator. Return ONLY valid JSON. Do not include markdown or explanations."
	evaluationSystemPrompt = "You are an AI exam evaluator. Evaluate answers objectively. Return ONLY valid JSON. " +
		"For written questions, use partial scoring based on how well the answer matches the expected answer."

	generationTemperature = 0.2
	evaluationTemperature = 0
)

func buildGenerationPrompt(prompt string) string {
	return fmt.Sprintf(`Create a quiz from the following prompt:

%q

Return JSON EXACTLY in this schema:
{
  "title": string,
  "description": string,
  "durationMinutes": number,
  "questions": [
    {
      "id": string,
      "type": "single" | "multiple" | "written",
      "question": string,
      "options": string[] | null,
      "correctAnswer": string | string[] | null
    }
  ]
}`, prompt)
}

// gradingQuestion is the slice of a question the grader gets to see.
type gradingQuestion struct {
	ID            string              `json:"id"`
	Type          domain.QuestionType `json:"type"`
	Question      string              `json:"question"`
	CorrectAnswer *domain.AnswerValue `json:"correctAnswer"`
}

func buildEvaluationPrompt(quiz *domain.Quiz, answers []domain.StudentAnswer) (string, error) {
	questions := make([]gradingQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, gradingQuestion{
			ID:            q.ID,
			Type:          q.Type,
			Question:      q.Text,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	questionsJSON, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode questions: %w", err)
	}
	if answers == nil {
		answers = []domain.StudentAnswer{}
	}
	answersJSON, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode answers: %w", err)
	}

	return fmt.Sprintf(`Quiz Questions with Correct Answers:
%s

Student Answers:
%s

Instructions:
- For multiple choice questions (single/multiple):
  * Compare student answer with correctAnswer exactly
  * isCorrect: true if exact match, false otherwise
  * partialScore: not needed (use 1.0 if correct, 0.0 if wrong)
  * If incorrect, feedback should mention the correct option(s)

- For written/description questions:
  * Evaluate how well the student's answer matches the expected answer
  * Calculate a similarity score (0.0 to 1.0) based on key concepts covered, accuracy of information and completeness of answer
  * If similarity >= 0.4 give partial credit: partialScore is the similarity (0.4 to 1.0) and isCorrect is true
  * If similarity < 0.4 give no credit: partialScore is 0.0 and isCorrect is false
  * Feedback MUST say what was correct, what was missing or incorrect, and give the expected answer or key points

- Score calculation:
  * For each question: score = partialScore (or 1.0 if isCorrect=true and no partialScore, 0.0 if isCorrect=false)
  * Total score = sum of all question scores
  * maxScore = total number of questions

Return JSON EXACTLY in this schema:
{
  "score": number,
  "maxScore": number,
  "results": [
    {
      "questionId": string,
      "isCorrect": boolean,
      "feedback": string,
      "partialScore": number (0.0 to 1.0, required for written questions, optional for others)
    }
  ]
}`, questionsJSON, answersJSON), nil
}
