package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/groupfund/groupfund/internal/events"
	"github.com/groupfund/groupfund/internal/model"
)

// CreateParticipantInput defines input for registering a participant.
type CreateParticipantInput struct {
	Name string
}

// CreateParticipant registers a participant with a zero total.
func (s *LedgerService) CreateParticipant(ctx context.Context, input CreateParticipantInput) (*model.Participant, error) {
	name, err := model.NormalizeName("name", input.Name)
	if err != nil {
		return nil, s.recordFailure(model.EntityParticipant, opCreate, err)
	}

	now := s.now()
	p := &model.Participant{
		ID:               newID(),
		Name:             name,
		TotalContributed: decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.CreateParticipant(ctx, p); err != nil {
		return nil, s.recordFailure(model.EntityParticipant, opCreate, fmt.Errorf("failed to create participant: %w", err))
	}

	s.afterWrite(ctx, model.EntityParticipant, opCreate, events.New(events.ParticipantCreated, p.ID, p.ID))
	return p, nil
}

// GetParticipant retrieves a participant by ID.
func (s *LedgerService) GetParticipant(ctx context.Context, id string) (*model.Participant, error) {
	return s.store.GetParticipant(ctx, id)
}

// ListParticipants returns all participants sorted by name.
func (s *LedgerService) ListParticipants(ctx context.Context) ([]*model.Participant, error) {
	return s.store.ListParticipants(ctx)
}
