package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"eventhub/internal/clock"
	"eventhub/internal/delivery/http/helpers"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type HealthController struct {
	Logger  *slog.Logger
	Checks  map[string]HealthCheck
	Clock   clock.Clock
	Timeout time.Duration
}

func NewHealthController(logger *slog.Logger, clk clock.Clock, checks map[string]HealthCheck) *HealthController {
	return &HealthController{Logger: logger, Checks: checks, Clock: clk, Timeout: 2 * time.Second}
}

// Check godoc
// @Summary Health check
// @Description Reports liveness and the reachability of Postgres and Redis.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.Timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Timestamp: c.Clock.Now().UTC().Format(time.RFC3339)}
	status := http.StatusOK
	if len(c.Checks) > 0 {
		resp.Checks = make(map[string]string, len(c.Checks))
	}
	for name, check := range c.Checks {
		if err := check(ctx); err != nil {
			c.Logger.WarnContext(ctx, "health check failed", "check", name, "err", err)
			resp.Checks[name] = "down"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "up"
	}
	helpers.WriteJSONSuccess(w, status, resp)
}
