package handler

import (
	"log/slog"
	"net/http"

	"github.com/groupfund/groupfund/internal/handler/dto"
	"github.com/groupfund/groupfund/internal/service"
)

// ReportHandler serves the read-side views.
type ReportHandler struct {
	svc    *service.ReportService
	logger *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: logger}
}

// Summary handles GET /api/v1/summary.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToSummaryResponse(summary))
}

// Bootstrap handles GET /api/v1/bootstrap.
func (h *ReportHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.Bootstrap(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToBootstrapResponse(snapshot))
}
