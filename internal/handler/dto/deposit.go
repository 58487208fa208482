package dto

import (
	"encoding/json"
	"time"

	"github.com/groupfund/groupfund/internal/model"
)

// DepositRequest represents the request body for creating or updating a
// deposit. Amount accepts a JSON number or a numeric string.
type DepositRequest struct {
	Amount        json.RawMessage `json:"amount"`
	ContributorID string          `json:"contributor_id"`
	Date          *time.Time      `json:"date,omitempty"`
}

// DepositResponse represents a deposit with its contributor expanded.
type DepositResponse struct {
	ID            string               `json:"id"`
	Amount        string               `json:"amount"`
	ContributorID string               `json:"contributor_id"`
	Contributor   *ParticipantResponse `json:"contributor"`
	Date          time.Time            `json:"date"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ToDepositResponse converts a Deposit model to its DTO.
func ToDepositResponse(d *model.Deposit) *DepositResponse {
	return &DepositResponse{
		ID:            d.ID,
		Amount:        formatAmount(d.Amount),
		ContributorID: d.ContributorID,
		Contributor:   ToParticipantResponse(d.Contributor),
		Date:          d.Date,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// ToDepositList converts deposits to DTOs.
func ToDepositList(deposits []*model.Deposit) []*DepositResponse {
	out := make([]*DepositResponse, 0, len(deposits))
	for _, d := range deposits {
		out = append(out, ToDepositResponse(d))
	}
	return out
}
