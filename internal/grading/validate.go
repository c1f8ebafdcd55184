package grading

import (
	"encoding/json"
	"errors"
	"strings"

	"quiz-craft/internal/domain"

	"github.com/xeipuuv/gojsonschema"
)

// Container-level schemas. Elements of results/questions are deliberately
// left unconstrained: they are repaired by the normalizer, not rejected.
const (
	gradingSchemaJSON = `{
  "type": "object",
  "required": ["score", "maxScore", "results"],
  "properties": {
    "score": {"type": "number"},
    "maxScore": {"type": "number"},
    "results": {"type": "array"}
  }
}`

	draftSchemaJSON = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {"type": "array", "minItems": 1}
  }
}`
)

var (
	gradingSchema = mustSchema(gradingSchemaJSON)
	draftSchema   = mustSchema(draftSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return s
}

// RawElement is one loosely typed entry of a results or questions array.
type RawElement map[string]interface{}

// GradingPayload is the container-validated grading response.
type GradingPayload struct {
	// ReportedScore and ReportedMaxScore are what the model claimed. They are
	// kept for logging only; the engine recomputes both.
	ReportedScore    float64
	ReportedMaxScore float64
	Results          []RawElement
}

// DraftPayload is the container-validated quiz generation response.
type DraftPayload struct {
	Fields    RawElement
	Questions []RawElement
}

// ParseGradingPayload extracts, parses and container-validates a grading response.
func ParseGradingPayload(raw string) (*GradingPayload, error) {
	doc, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	if err := validateAgainst(gradingSchema, doc, []string{"score", "maxScore", "results"}, "results"); err != nil {
		return nil, err
	}

	score, _ := doc["score"].(float64)
	maxScore, _ := doc["maxScore"].(float64)
	return &GradingPayload{
		ReportedScore:    score,
		ReportedMaxScore: maxScore,
		Results:          toElements(doc["results"].([]interface{})),
	}, nil
}

// ParseDraftPayload extracts, parses and container-validates a quiz generation response.
func ParseDraftPayload(raw string) (*DraftPayload, error) {
	doc, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	if err := validateAgainst(draftSchema, doc, []string{"questions"}, "questions"); err != nil {
		return nil, err
	}

	return &DraftPayload{
		Fields:    RawElement(doc),
		Questions: toElements(doc["questions"].([]interface{})),
	}, nil
}

func parseObject(raw string) (map[string]interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, domain.NewEmptyResponseError()
	}

	candidate := ExtractJSON(raw)
	var value interface{}
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return nil, domain.NewMalformedJSONError(err)
	}
	doc, ok := value.(map[string]interface{})
	if !ok {
		return nil, domain.NewMalformedJSONError(errors.New("top-level value is not a JSON object"))
	}
	return doc, nil
}

// validateAgainst runs the schema and reports the first failing field in
// fieldOrder, so the reported error does not depend on validator ordering.
func validateAgainst(schema *gojsonschema.Schema, doc map[string]interface{}, fieldOrder []string, listField string) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return domain.NewMalformedJSONError(err)
	}
	if result.Valid() {
		return nil
	}

	failures := make(map[string]*domain.DomainError)
	for _, re := range result.Errors() {
		field := re.Field()
		var derr *domain.DomainError
		switch re.Type() {
		case "required":
			if p, ok := re.Details()["property"].(string); ok {
				field = p
			}
			derr = domain.NewPayloadMissingFieldError(field)
		case "invalid_type":
			if field == listField {
				derr = domain.NewInvalidResultsStructureError(field)
			} else {
				derr = domain.NewPayloadMissingFieldError(field)
			}
		default:
			derr = domain.NewPayloadMissingFieldError(field)
		}
		if _, seen := failures[field]; !seen {
			failures[field] = derr
		}
	}

	for _, field := range fieldOrder {
		if derr, ok := failures[field]; ok {
			return derr
		}
	}
	return domain.NewPayloadMissingFieldError(fieldOrder[0])
}

func toElements(items []interface{}) []RawElement {
	out := make([]RawElement, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			// Non-object entries still occupy a position for the index fallback.
			m = map[string]interface{}{}
		}
		out = append(out, RawElement(m))
	}
	return out
}
