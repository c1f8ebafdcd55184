package grading

import (
	"fmt"
	"strings"

	"quiz-craft/internal/domain"
)

// Reconcile turns a validated grading payload into a trusted result for quiz.
// Every canonical question gets exactly one result and every model result is
// used at most once. Results are claimed by identifier first; a question left
// unclaimed falls back to the result at its position, provided no other
// question claimed it and its identifier does not name another question.
// A question without a result earns zero credit. Score and MaxScore are
// recomputed, never taken from the payload.
func Reconcile(quiz *domain.Quiz, payload *GradingPayload) domain.EvaluationResult {
	assigned := assignResults(quiz.Questions, payload.Results)

	results := make([]domain.QuestionResult, 0, len(quiz.Questions))
	for i := range quiz.Questions {
		q := &quiz.Questions[i]

		var r domain.QuestionResult
		if j := assigned[i]; j >= 0 {
			r = NormalizeRawResult(payload.Results[j], q)
		} else {
			r = NormalizeResult(domain.QuestionResult{}, q)
		}
		if q.ID != "" {
			r.QuestionID = q.ID
		}
		results = append(results, r)
	}

	return domain.EvaluationResult{
		Score:    Aggregate(results),
		MaxScore: len(quiz.Questions),
		Results:  results,
	}
}

// assignResults returns, per question, the index of its raw result or -1.
func assignResults(questions []domain.Question, raw []RawElement) []int {
	assigned := make([]int, len(questions))
	claimed := make([]bool, len(raw))
	known := make(map[string]struct{}, len(questions))
	for i := range questions {
		assigned[i] = -1
		if id := strings.TrimSpace(questions[i].ID); id != "" {
			known[id] = struct{}{}
		}
	}

	for i := range questions {
		id := strings.TrimSpace(questions[i].ID)
		if id == "" {
			continue
		}
		for j, r := range raw {
			if !claimed[j] && strings.TrimSpace(rawResultID(r)) == id {
				assigned[i], claimed[j] = j, true
				break
			}
		}
	}

	for i := range questions {
		if assigned[i] >= 0 || i >= len(raw) || claimed[i] {
			continue
		}
		if _, other := known[strings.TrimSpace(rawResultID(raw[i]))]; other {
			continue
		}
		assigned[i], claimed[i] = i, true
	}
	return assigned
}

const untitledQuiz = "Untitled Quiz"

// BuildDraft repairs the elements of a validated generation payload into a
// QuizDraft. Entries without question text are skipped; if none remain the
// payload is rejected as missing its questions.
func BuildDraft(payload *DraftPayload, defaultDuration int) (*domain.QuizDraft, error) {
	draft := &domain.QuizDraft{
		Title:           strings.TrimSpace(coerceString(payload.Fields["title"])),
		Description:     strings.TrimSpace(coerceString(payload.Fields["description"])),
		DurationMinutes: coerceDuration(payload.Fields["durationMinutes"], defaultDuration),
	}
	if draft.Title == "" {
		draft.Title = untitledQuiz
	}

	used := make(map[string]struct{}, len(payload.Questions))
	for i, raw := range payload.Questions {
		q, ok := buildQuestion(raw)
		if !ok {
			continue
		}
		q.ID = uniqueQuestionID(q.ID, i, used)
		draft.Questions = append(draft.Questions, q)
	}
	if len(draft.Questions) == 0 {
		return nil, domain.NewPayloadMissingFieldError("questions")
	}
	return draft, nil
}

func buildQuestion(raw RawElement) (domain.Question, bool) {
	text := strings.TrimSpace(coerceString(raw["question"]))
	if text == "" {
		text = strings.TrimSpace(coerceString(raw["text"]))
	}
	if text == "" {
		return domain.Question{}, false
	}

	q := domain.Question{
		ID:   strings.TrimSpace(coerceString(raw["id"])),
		Text: text,
		Type: domain.QuestionType(strings.ToLower(strings.TrimSpace(coerceString(raw["type"])))),
	}

	if opts, err := domain.AnswerValueFrom(raw["options"]); err == nil {
		for _, o := range opts.Values() {
			if o = strings.TrimSpace(o); o != "" {
				q.Options = append(q.Options, o)
			}
		}
	}
	if !q.Type.Valid() {
		if len(q.Options) > 0 {
			q.Type = domain.QuestionSingle
		} else {
			q.Type = domain.QuestionWritten
		}
	}
	if q.Type.IsChoice() && len(q.Options) == 0 {
		q.Type = domain.QuestionWritten
	}
	if q.Type == domain.QuestionWritten {
		q.Options = nil
	}

	if raw["correctAnswer"] != nil {
		if ca, err := domain.AnswerValueFrom(raw["correctAnswer"]); err == nil {
			ca = NormalizeAnswer(q, ca)
			if q.Type.IsChoice() {
				ca = ResolveAnswerText(q, ca)
			}
			q.CorrectAnswer = &ca
		}
	}
	return q, true
}

func uniqueQuestionID(id string, index int, used map[string]struct{}) string {
	if id == "" {
		id = fmt.Sprintf("q%d", index+1)
	}
	candidate := id
	for n := 2; ; n++ {
		if _, taken := used[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	used[candidate] = struct{}{}
	return candidate
}

func coerceDuration(v interface{}, fallback int) int {
	if v == nil {
		return fallback
	}
	f, ok := coerceNumber(v)
	if !ok || f < 1 {
		return fallback
	}
	return int(f)
}
