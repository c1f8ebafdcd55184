package handler

import (
	"context"
	"time"

	"quiz-craft/internal/domain"
	"quiz-craft/internal/dto"
	"quiz-craft/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports whether the database and cache are reachable
type HealthHandler struct {
	db    Pinger
	cache domain.Cache
}

func NewHealthHandler(db Pinger, cache domain.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Services: map[string]string{}}
	status := fiber.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		logger.Get().Warn("database health check failed", zap.Error(err))
		resp.Services["database"] = "down"
		resp.Status = "degraded"
		status = fiber.StatusServiceUnavailable
	} else {
		resp.Services["database"] = "up"
	}

	// A cache outage alone does not fail the check.
	if err := h.cache.Ping(ctx); err != nil {
		logger.Get().Warn("cache health check failed", zap.Error(err))
		resp.Services["cache"] = "down"
		if resp.Status == "ok" {
			resp.Status = "degraded"
		}
	} else {
		resp.Services["cache"] = "up"
	}

	return c.Status(status).JSON(resp)
}
