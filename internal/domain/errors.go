package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Request validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Quiz specific errors
	CodeQuizNotFound       ErrorCode = "QUIZ_NOT_FOUND"
	CodeSubmissionNotFound ErrorCode = "SUBMISSION_NOT_FOUND"
	CodeLLMServiceError    ErrorCode = "LLM_SERVICE_ERROR"
	CodeGenerationFailed   ErrorCode = "QUIZ_GENERATION_FAILED"
	CodeEvaluationFailed   ErrorCode = "EVALUATION_FAILED"

	// Payload errors raised while reading LLM output. These are
	// container-level failures and abort the whole call.
	CodeEmptyResponse           ErrorCode = "EMPTY_RESPONSE"
	CodeMalformedJSON           ErrorCode = "MALFORMED_JSON"
	CodePayloadMissingField     ErrorCode = "PAYLOAD_MISSING_FIELD"
	CodeInvalidResultsStructure ErrorCode = "INVALID_RESULTS_STRUCTURE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause so errors.Is/As can walk wrapped payload errors.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithContext attaches a key/value detail that is rendered in API responses.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// Sentinels for errors.Is comparisons. Only the code is compared.
var (
	ErrEmptyResponse           = &DomainError{Code: CodeEmptyResponse}
	ErrMalformedJSON           = &DomainError{Code: CodeMalformedJSON}
	ErrPayloadMissingField     = &DomainError{Code: CodePayloadMissingField}
	ErrInvalidResultsStructure = &DomainError{Code: CodeInvalidResultsStructure}
	ErrGenerationFailed        = &DomainError{Code: CodeGenerationFailed}
	ErrEvaluationFailed        = &DomainError{Code: CodeEvaluationFailed}
	ErrLLMService              = &DomainError{Code: CodeLLMServiceError}
	ErrQuizNotFound            = &DomainError{Code: CodeQuizNotFound}
	ErrSubmissionNotFound      = &DomainError{Code: CodeSubmissionNotFound}
	ErrUnauthorized            = &DomainError{Code: CodeUnauthorized}
)

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

func NewSubmissionNotFoundError(submissionID string) *DomainError {
	return NewError(CodeSubmissionNotFound, fmt.Sprintf("Submission not found with ID: %s", submissionID), nil)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", err)
}

func NewGenerationError(err error) *DomainError {
	return NewError(CodeGenerationFailed, "Failed to generate quiz", err)
}

func NewEvaluationError(err error) *DomainError {
	return NewError(CodeEvaluationFailed, "Failed to evaluate answers", err)
}

func NewEmptyResponseError() *DomainError {
	return NewError(CodeEmptyResponse, "Empty response from AI", nil)
}

func NewMalformedJSONError(err error) *DomainError {
	return NewError(CodeMalformedJSON, "Response is not valid JSON", err)
}

func NewPayloadMissingFieldError(field string) *DomainError {
	return NewError(CodePayloadMissingField, fmt.Sprintf("Invalid payload structure: %s is missing or has the wrong type", field), nil).
		WithContext("field", field)
}

func NewInvalidResultsStructureError(field string) *DomainError {
	return NewError(CodeInvalidResultsStructure, fmt.Sprintf("Invalid payload structure: %s must be an array", field), nil).
		WithContext("field", field)
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Code    ErrorCode   `json:"code"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects request validation failures.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Code: CodeMissingField, Field: field, Message: "field is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Code: CodeInvalidFormat, Field: field, Message: "field has an invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Code:    CodeOutOfRange,
		Field:   field,
		Message: fmt.Sprintf("value must be between %d and %d", min, max),
		Value:   value,
	}
}
