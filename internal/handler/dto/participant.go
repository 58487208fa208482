package dto

import (
	"time"

	"github.com/groupfund/groupfund/internal/model"
)

// CreateParticipantRequest represents the request body for registering a participant.
type CreateParticipantRequest struct {
	Name string `json:"name"`
}

// ParticipantResponse represents a participant in API responses.
type ParticipantResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	TotalContributed string    `json:"total_contributed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToParticipantResponse converts a Participant model to its DTO.
func ToParticipantResponse(p *model.Participant) *ParticipantResponse {
	if p == nil {
		return nil
	}
	return &ParticipantResponse{
		ID:               p.ID,
		Name:             p.Name,
		TotalContributed: formatAmount(p.TotalContributed),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToParticipantList converts participants to DTOs.
func ToParticipantList(participants []*model.Participant) []*ParticipantResponse {
	out := make([]*ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		out = append(out, ToParticipantResponse(p))
	}
	return out
}
