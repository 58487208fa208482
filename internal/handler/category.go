package handler

import (
	"log/slog"
	"net/http"

	"github.com/groupfund/groupfund/internal/handler/dto"
	"github.com/groupfund/groupfund/internal/service"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	svc    *service.LedgerService
	logger *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(svc *service.LedgerService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), service.CreateCategoryInput{Name: req.Name})
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("category_created", "category_id", c.ID)
	writeJSON(w, http.StatusCreated, dto.ToCategoryResponse(c))
}

// List handles GET /api/v1/categories. The defaults are seeded on the
// first list of an empty store.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.CategoryResponse]{Data: dto.ToCategoryList(categories)})
}
