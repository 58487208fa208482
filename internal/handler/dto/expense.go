package dto

import (
	"encoding/json"
	"time"

	"github.com/groupfund/groupfund/internal/model"
)

// CreateExpenseRequest represents the request body for recording an expense.
type CreateExpenseRequest struct {
	Amount      json.RawMessage `json:"amount"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	Date        *time.Time      `json:"date,omitempty"`
}

// UpdateExpenseRequest represents a partial expense update. An omitted
// description clears it.
type UpdateExpenseRequest struct {
	Amount      json.RawMessage `json:"amount,omitempty"`
	Description *string         `json:"description,omitempty"`
	CategoryID  *string         `json:"category_id,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// ExpenseResponse represents an expense with its category expanded.
type ExpenseResponse struct {
	ID           string            `json:"id"`
	Amount       string            `json:"amount"`
	Description  string            `json:"description"`
	CategoryID   string            `json:"category_id"`
	Category     *CategoryResponse `json:"category"`
	CategoryName string            `json:"category_name"`
	Date         time.Time         `json:"date"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ToExpenseResponse converts an Expense model to its DTO.
func ToExpenseResponse(e *model.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:           e.ID,
		Amount:       formatAmount(e.Amount),
		Description:  e.Description,
		CategoryID:   e.CategoryID,
		Category:     ToCategoryResponse(e.Category),
		CategoryName: e.CategoryName(),
		Date:         e.Date,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// ToExpenseList converts expenses to DTOs.
func ToExpenseList(expenses []*model.Expense) []*ExpenseResponse {
	out := make([]*ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, ToExpenseResponse(e))
	}
	return out
}
