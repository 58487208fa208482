package model

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxDescriptionLength bounds expense descriptions.
const MaxDescriptionLength = 500

// Expense is money spent from the shared fund.
type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	// Category is resolved on read; nil when the reference cannot be resolved.
	Category  *Category `json:"category"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryName returns the resolved category name or OtherCategoryName.
func (e *Expense) CategoryName() string {
	if e.Category == nil || e.Category.Name == "" {
		return OtherCategoryName
	}
	return e.Category.Name
}

// ValidateDescription checks the description length.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return NewValidationError("description", "is too long")
	}
	return nil
}
