package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 15, 60},
		},
		[]string{"method", "endpoint"},
	)

	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Outbound text generation calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	LLMDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Latency of outbound text generation calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"operation"},
	)

	// PayloadErrors counts container-level rejections of model output.
	PayloadErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_payload_errors_total",
			Help: "Model responses rejected by the payload validator",
		},
		[]string{"operation", "code"},
	)

	Evaluations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_evaluations_total",
			Help: "Submissions graded successfully",
		},
	)

	EvaluationScoreRatio = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_evaluation_score_ratio",
			Help:    "score / maxScore of graded submissions",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)
)

var initOnce sync.Once

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			LLMRequests,
			LLMDuration,
			PayloadErrors,
			Evaluations,
			EvaluationScoreRatio,
		)
	})
}

// ObserveLLMCall records one outbound model call.
func ObserveLLMCall(operation string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	LLMRequests.WithLabelValues(operation, outcome).Inc()
	LLMDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// ObserveEvaluation records a successful grading.
func ObserveEvaluation(score float64, maxScore int) {
	Evaluations.Inc()
	if maxScore > 0 {
		EvaluationScoreRatio.Observe(score / float64(maxScore))
	}
}

func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		endpoint := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		RequestCounter.WithLabelValues(c.Method(), endpoint, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(c.Method(), endpoint).Observe(time.Since(start).Seconds())
		return err
	}
}

func PrometheusHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
