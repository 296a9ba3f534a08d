package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness and dependency status
type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health handles GET /health. Any failing check answers 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			components[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	respondWithJSON(w, status, map[string]interface{}{
		"status":     overall,
		"components": components,
	})
}
