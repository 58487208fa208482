package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/groupfund/groupfund/internal/logging"
)

const readinessTimeout = 5 * time.Second

// HealthChecker is a dependency that can be pinged.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store HealthChecker
	cache HealthChecker
}

// NewHealthHandler creates a HealthHandler. cache is nil when Redis is not
// configured; the store is always required.
func NewHealthHandler(store, cache HealthChecker) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

// HealthResponse is the probe response body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz reports that the process is serving. It checks nothing.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz pings the ledger store and, when configured, Redis. It answers 503
// if the store is missing or any configured dependency fails.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string, 2)
	healthy := probe(ctx, checks, "storage", h.store, true)
	healthy = probe(ctx, checks, "redis", h.cache, false) && healthy

	resp := HealthResponse{Status: "ok", Checks: checks}
	status := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// probe records the outcome of pinging c under name and reports whether the
// dependency counts as healthy. Connection strings are redacted from errors.
func probe(ctx context.Context, checks map[string]string, name string, c HealthChecker, required bool) bool {
	if c == nil {
		checks[name] = "not configured"
		return !required
	}
	if err := c.Ping(ctx); err != nil {
		checks[name] = "error: " + logging.SanitizeError(err)
		return false
	}
	checks[name] = "ok"
	return true
}
