package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/groupfund/groupfund/internal/handler/dto"
	"github.com/groupfund/groupfund/internal/service"
)

// ParticipantHandler handles HTTP requests for participants.
type ParticipantHandler struct {
	svc    *service.LedgerService
	logger *slog.Logger
}

// NewParticipantHandler creates a new ParticipantHandler.
func NewParticipantHandler(svc *service.LedgerService, logger *slog.Logger) *ParticipantHandler {
	return &ParticipantHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/participants.
func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateParticipantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.CreateParticipant(r.Context(), service.CreateParticipantInput{Name: req.Name})
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("participant_created", "participant_id", p.ID)
	writeJSON(w, http.StatusCreated, dto.ToParticipantResponse(p))
}

// Get handles GET /api/v1/participants/{id}.
func (h *ParticipantHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetParticipant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToParticipantResponse(p))
}

// List handles GET /api/v1/participants.
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	participants, err := h.svc.ListParticipants(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.ParticipantResponse]{Data: dto.ToParticipantList(participants)})
}
