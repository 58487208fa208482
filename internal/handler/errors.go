package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/groupfund/groupfund/internal/handler/dto"
	"github.com/groupfund/groupfund/internal/model"
)

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var (
		verr  *model.ValidationError
		nferr *model.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error: verr.Error(),
			Code:  "VALIDATION_ERROR",
			Field: verr.Field,
		})
	case errors.As(err, &nferr):
		entity := nferr.Entity
		if entity == "" {
			entity = "resource"
		}
		writeError(w, http.StatusNotFound, strings.ToUpper(entity)+"_NOT_FOUND",
			strings.ToUpper(entity[:1])+entity[1:]+" not found")
	case errors.Is(err, model.ErrConflict):
		writeError(w, http.StatusConflict, "CATEGORY_EXISTS", "Category name already exists")
	case errors.Is(err, model.ErrTransactionFailed):
		logger.Error("transaction_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "TRANSACTION_FAILED", "The operation was rolled back")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
