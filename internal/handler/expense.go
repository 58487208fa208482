package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/groupfund/groupfund/internal/handler/dto"
	"github.com/groupfund/groupfund/internal/service"
)

// ExpenseHandler handles HTTP requests for expenses.
type ExpenseHandler struct {
	svc    *service.LedgerService
	logger *slog.Logger
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(svc *service.LedgerService, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/expenses.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e, err := h.svc.CreateExpense(r.Context(), service.CreateExpenseInput{
		Amount:      dto.RawAmount(req.Amount),
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Date:        req.Date,
	})
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("expense_created",
		"expense_id", e.ID,
		"category_id", e.CategoryID,
	)
	writeJSON(w, http.StatusCreated, dto.ToExpenseResponse(e))
}

// Get handles GET /api/v1/expenses/{id}.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.GetExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToExpenseResponse(e))
}

// List handles GET /api/v1/expenses.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.ListExpenses(r.Context(), parseLimit(r))
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.ExpenseResponse]{Data: dto.ToExpenseList(expenses)})
}

// Update handles PATCH /api/v1/expenses/{id}.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e, err := h.svc.UpdateExpense(r.Context(), service.UpdateExpenseInput{
		ID:          chi.URLParam(r, "id"),
		Amount:      dto.OptionalAmount(req.Amount),
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Date:        req.Date,
	})
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("expense_updated", "expense_id", e.ID)
	writeJSON(w, http.StatusOK, dto.ToExpenseResponse(e))
}

// Delete handles DELETE /api/v1/expenses/{id}.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteExpense(r.Context(), id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("expense_deleted", "expense_id", id)
	w.WriteHeader(http.StatusNoContent)
}
