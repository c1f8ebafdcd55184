// Package llm adapts langchaingo models to domain.TextGenerator.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quiz-craft/internal/config"
	"quiz-craft/internal/domain"
	"quiz-craft/internal/logger"
	"quiz-craft/internal/monitoring"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// NewModel builds a langchaingo model for the configured provider.
// Groq is reached through its OpenAI-compatible endpoint.
func NewModel(cfg config.LLMConfig, model string) (llms.Model, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case "ollama":
		return ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(model),
			ollama.WithHTTPClient(httpClient),
		)
	case "openai":
		return openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(model),
			openai.WithHTTPClient(httpClient),
		)
	case "groq":
		return openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(model),
			openai.WithBaseURL(groqBaseURL),
			openai.WithHTTPClient(httpClient),
		)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// Generator sends system/user instructions to a model and returns its raw text.
// Generation and evaluation may use different models.
type Generator struct {
	generation llms.Model
	evaluation llms.Model
	limiter    *rate.Limiter
	timeout    time.Duration
}

// NewGenerator returns a Generator. requestsPerMinute <= 0 disables throttling.
func NewGenerator(generation, evaluation llms.Model, requestsPerMinute int, timeout time.Duration) *Generator {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
	}
	if evaluation == nil {
		evaluation = generation
	}
	return &Generator{
		generation: generation,
		evaluation: evaluation,
		limiter:    limiter,
		timeout:    timeout,
	}
}

// Generate implements domain.TextGenerator. Failures are returned as
// LLM service errors; an empty completion is returned as-is for the payload
// validator to reject.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	l := logger.Get()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if err := g.limiter.Wait(ctx); err != nil {
		l.Warn("LLM rate limiter wait aborted", zap.String("operation", req.Operation), zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("rate limit wait: %w", err))
	}

	model := g.generation
	if req.Operation == domain.OperationEvaluate {
		model = g.evaluation
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, req.System),
		llms.TextParts(schema.ChatMessageTypeHuman, req.User),
	}

	started := time.Now()
	resp, err := model.GenerateContent(ctx, messages,
		llms.WithTemperature(req.Temperature),
		llms.WithJSONMode(),
	)
	monitoring.ObserveLLMCall(req.Operation, started, err)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.String("operation", req.Operation), zap.Error(err))
			return "", domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		l.Error("Failed to get response from LLM", zap.String("operation", req.Operation), zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}

	if resp == nil || len(resp.Choices) == 0 {
		l.Warn("LLM returned no choices", zap.String("operation", req.Operation))
		return "", nil
	}

	content := resp.Choices[0].Content
	l.Debug("Raw LLM response received",
		zap.String("operation", req.Operation),
		zap.Duration("elapsed", time.Since(started)),
		zap.String("raw_response", truncate(content, 500)))
	return content, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
