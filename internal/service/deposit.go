package service

import (
	"context"
	"fmt"
	"time"

	"github.com/groupfund/groupfund/internal/events"
	"github.com/groupfund/groupfund/internal/model"
)

// CreateDepositInput defines input for recording a deposit. Amount is the
// textual amount as received; Date defaults to now.
type CreateDepositInput struct {
	Amount        string
	ContributorID string
	Date          *time.Time
}

// UpdateDepositInput defines input for updating a deposit. Amount and
// ContributorID are required; a nil Date keeps the stored date.
type UpdateDepositInput struct {
	ID            string
	Amount        string
	ContributorID string
	Date          *time.Time
}

// CreateDeposit records a deposit and credits its contributor.
func (s *LedgerService) CreateDeposit(ctx context.Context, input CreateDepositInput) (*model.Deposit, error) {
	amount, err := parseAmount("amount", input.Amount)
	if err != nil {
		return nil, s.recordFailure(model.EntityDeposit, opCreate, err)
	}
	contributorID, err := requireID("contributor_id", input.ContributorID)
	if err != nil {
		return nil, s.recordFailure(model.EntityDeposit, opCreate, err)
	}

	now := s.now()
	d := &model.Deposit{
		ID:            newID(),
		Amount:        amount,
		ContributorID: contributorID,
		Date:          normalizeDate(input.Date, now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateDeposit(ctx, d); err != nil {
		return nil, s.recordFailure(model.EntityDeposit, opCreate, fmt.Errorf("failed to create deposit: %w", err))
	}

	s.afterWrite(ctx, model.EntityDeposit, opCreate, events.New(events.DepositCreated, d.ID, d.ContributorID))
	return d, nil
}

// GetDeposit retrieves a deposit with its contributor resolved.
func (s *LedgerService) GetDeposit(ctx context.Context, id string) (*model.Deposit, error) {
	return s.store.GetDeposit(ctx, id)
}

// ListDeposits returns the newest deposits first; limit <= 0 means all.
func (s *LedgerService) ListDeposits(ctx context.Context, limit int) ([]*model.Deposit, error) {
	return s.store.ListDeposits(ctx, limit)
}

// UpdateDeposit changes a deposit and moves the contribution between totals.
func (s *LedgerService) UpdateDeposit(ctx context.Context, input UpdateDepositInput) (*model.Deposit, error) {
	amount, err := parseAmount("amount", input.Amount)
	if err != nil {
		return nil, s.recordFailure(model.EntityDeposit, opUpdate, err)
	}
	contributorID, err := requireID("contributor_id", input.ContributorID)
	if err != nil {
		return nil, s.recordFailure(model.EntityDeposit, opUpdate, err)
	}

	change := model.DepositChange{Amount: amount, ContributorID: contributorID}
	if input.Date != nil && !input.Date.IsZero() {
		date := normalizeDate(input.Date, time.Time{})
		change.Date = &date
	}

	updated, previous, err := s.store.UpdateDeposit(ctx, input.ID, change)
	if err != nil {
		return nil, s.recordFailure(model.EntityDeposit, opUpdate, fmt.Errorf("failed to update deposit: %w", err))
	}

	s.afterWrite(ctx, model.EntityDeposit, opUpdate,
		events.New(events.DepositUpdated, updated.ID, previous.ContributorID, updated.ContributorID))
	return updated, nil
}

// DeleteDeposit removes a deposit and debits its contributor.
func (s *LedgerService) DeleteDeposit(ctx context.Context, id string) error {
	removed, err := s.store.DeleteDeposit(ctx, id)
	if err != nil {
		return s.recordFailure(model.EntityDeposit, opDelete, fmt.Errorf("failed to delete deposit: %w", err))
	}

	s.afterWrite(ctx, model.EntityDeposit, opDelete, events.New(events.DepositDeleted, removed.ID, removed.ContributorID))
	return nil
}
