package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/groupfund/groupfund/internal/handler/dto"
	"github.com/groupfund/groupfund/internal/service"
)

// DepositHandler handles HTTP requests for deposits.
type DepositHandler struct {
	svc    *service.LedgerService
	logger *slog.Logger
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(svc *service.LedgerService, logger *slog.Logger) *DepositHandler {
	return &DepositHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/deposits.
func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.svc.CreateDeposit(r.Context(), service.CreateDepositInput{
		Amount:        dto.RawAmount(req.Amount),
		ContributorID: req.ContributorID,
		Date:          req.Date,
	})
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("deposit_created",
		"deposit_id", d.ID,
		"contributor_id", d.ContributorID,
	)
	writeJSON(w, http.StatusCreated, dto.ToDepositResponse(d))
}

// Get handles GET /api/v1/deposits/{id}.
func (h *DepositHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDeposit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToDepositResponse(d))
}

// List handles GET /api/v1/deposits.
func (h *DepositHandler) List(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.svc.ListDeposits(r.Context(), parseLimit(r))
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.DepositResponse]{Data: dto.ToDepositList(deposits)})
}

// Update handles PATCH /api/v1/deposits/{id}.
func (h *DepositHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.svc.UpdateDeposit(r.Context(), service.UpdateDepositInput{
		ID:            chi.URLParam(r, "id"),
		Amount:        dto.RawAmount(req.Amount),
		ContributorID: req.ContributorID,
		Date:          req.Date,
	})
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("deposit_updated",
		"deposit_id", d.ID,
		"contributor_id", d.ContributorID,
	)
	writeJSON(w, http.StatusOK, dto.ToDepositResponse(d))
}

// Delete handles DELETE /api/v1/deposits/{id}.
func (h *DepositHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteDeposit(r.Context(), id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("deposit_deleted", "deposit_id", id)
	w.WriteHeader(http.StatusNoContent)
}
