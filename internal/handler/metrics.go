package handler

import (
	"net/http"

	"github.com/groupfund/groupfund/internal/metrics"
)

// MetricsHandler exposes recorded metrics in Prometheus exposition format.
type MetricsHandler struct {
	exposer metrics.Exposer
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(exposer metrics.Exposer) *MetricsHandler {
	return &MetricsHandler{exposer: exposer}
}

// Metrics handles GET /metrics.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.exposer == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	h.exposer.Handler().ServeHTTP(w, r)
}
