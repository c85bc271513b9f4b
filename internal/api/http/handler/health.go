package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/vidtube-server/internal/api/http/response"
	"github.com/dtroode/vidtube-server/internal/logger"
)

const readinessTimeout = 2 * time.Second

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck names a dependency probed by the readiness endpoint.
type HealthCheck struct {
	Name   string
	Pinger Pinger
}

// Health serves liveness and readiness probes.
type Health struct {
	checks []HealthCheck
	logger *logger.Logger
}

func NewHealth(logger *logger.Logger, checks ...HealthCheck) *Health {
	return &Health{checks: checks, logger: logger}
}

// Healthz reports that the process is up.
func (h *Health) Healthz(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, h.logger, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz pings every dependency and answers 503 if any of them fails.
func (h *Health) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	body := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	for _, check := range h.checks {
		if err := check.Pinger.Ping(ctx); err != nil {
			h.logger.Error("Readiness check failed",
				"check", check.Name,
				"error", err.Error())
			body.Checks[check.Name] = "unavailable"
			body.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		body.Checks[check.Name] = "ok"
	}

	response.JSON(w, h.logger, status, body)
}
