package domain

import "context"

// TextGenerator is the port to the external text-generation service.
// It returns the model's raw text, which may or may not be clean JSON.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// GenerationRequest is a system instruction plus a user instruction.
type GenerationRequest struct {
	// Operation names the call for logs and metrics ("generate" or "evaluate").
	Operation   string
	System      string
	User        string
	Temperature float64
}

// Operation names used in GenerationRequest.Operation.
const (
	OperationGenerate = "generate"
	OperationEvaluate = "evaluate"
)
