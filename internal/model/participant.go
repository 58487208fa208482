// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxNameLength bounds participant and category names.
const MaxNameLength = 100

// Participant is a member of the group who contributes to the shared fund.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// TotalContributed caches the sum of this participant's deposits.
	// Only deposit operations change it.
	TotalContributed decimal.Decimal `json:"total_contributed"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NormalizeName trims a participant or category name and validates it.
func NormalizeName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError(field, "is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", NewValidationError(field, "is too long")
	}
	return name, nil
}

// Drift is a participant whose cached total disagrees with their deposits.
type Drift struct {
	ParticipantID string          `json:"participant_id"`
	Name          string          `json:"name"`
	Cached        decimal.Decimal `json:"cached"`
	Actual        decimal.Decimal `json:"actual"`
}
