// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/groupfund/groupfund/internal/model"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// ListResponse wraps a list of items.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// RawAmount returns the textual form of an amount accepted either as a JSON
// number or as a JSON string. Missing and null amounts yield "".
func RawAmount(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return ""
	}
	return s
}

// OptionalAmount returns nil when raw was omitted.
func OptionalAmount(raw json.RawMessage) *string {
	if raw == nil {
		return nil
	}
	s := RawAmount(raw)
	return &s
}

func formatAmount(d decimal.Decimal) string {
	return model.FormatAmount(d)
}
