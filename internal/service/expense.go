package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/groupfund/groupfund/internal/events"
	"github.com/groupfund/groupfund/internal/model"
)

// CreateExpenseInput defines input for recording an expense.
type CreateExpenseInput struct {
	Amount      string
	Description string
	CategoryID  string
	Date        *time.Time
}

// UpdateExpenseInput defines a partial expense update. Nil fields keep their
// stored value, except Description, which is cleared when nil.
type UpdateExpenseInput struct {
	ID          string
	Amount      *string
	Description *string
	CategoryID  *string
	Date        *time.Time
}

// CreateExpense records an expense.
func (s *LedgerService) CreateExpense(ctx context.Context, input CreateExpenseInput) (*model.Expense, error) {
	amount, err := parseAmount("amount", input.Amount)
	if err != nil {
		return nil, s.recordFailure(model.EntityExpense, opCreate, err)
	}
	categoryID, err := requireID("category_id", input.CategoryID)
	if err != nil {
		return nil, s.recordFailure(model.EntityExpense, opCreate, err)
	}
	description := strings.TrimSpace(input.Description)
	if err := model.ValidateDescription(description); err != nil {
		return nil, s.recordFailure(model.EntityExpense, opCreate, err)
	}

	now := s.now()
	e := &model.Expense{
		ID:          newID(),
		Amount:      amount,
		Description: description,
		CategoryID:  categoryID,
		Date:        normalizeDate(input.Date, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateExpense(ctx, e); err != nil {
		return nil, s.recordFailure(model.EntityExpense, opCreate, fmt.Errorf("failed to create expense: %w", err))
	}

	s.afterWrite(ctx, model.EntityExpense, opCreate, events.New(events.ExpenseCreated, e.ID))
	return e, nil
}

// GetExpense retrieves an expense with its category resolved.
func (s *LedgerService) GetExpense(ctx context.Context, id string) (*model.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// ListExpenses returns the newest expenses first; limit <= 0 means all.
func (s *LedgerService) ListExpenses(ctx context.Context, limit int) ([]*model.Expense, error) {
	return s.store.ListExpenses(ctx, limit)
}

// UpdateExpense applies a partial update to an expense.
func (s *LedgerService) UpdateExpense(ctx context.Context, input UpdateExpenseInput) (*model.Expense, error) {
	e, err := s.store.GetExpense(ctx, input.ID)
	if err != nil {
		return nil, s.recordFailure(model.EntityExpense, opUpdate, err)
	}

	if input.Amount != nil {
		amount, err := parseAmount("amount", *input.Amount)
		if err != nil {
			return nil, s.recordFailure(model.EntityExpense, opUpdate, err)
		}
		e.Amount = amount
	}
	if input.CategoryID != nil {
		categoryID, err := requireID("category_id", *input.CategoryID)
		if err != nil {
			return nil, s.recordFailure(model.EntityExpense, opUpdate, err)
		}
		e.CategoryID = categoryID
	}

	e.Description = ""
	if input.Description != nil {
		e.Description = strings.TrimSpace(*input.Description)
		if err := model.ValidateDescription(e.Description); err != nil {
			return nil, s.recordFailure(model.EntityExpense, opUpdate, err)
		}
	}
	if input.Date != nil && !input.Date.IsZero() {
		e.Date = normalizeDate(input.Date, e.Date)
	}
	e.UpdatedAt = s.now()

	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return nil, s.recordFailure(model.EntityExpense, opUpdate, fmt.Errorf("failed to update expense: %w", err))
	}

	s.afterWrite(ctx, model.EntityExpense, opUpdate, events.New(events.ExpenseUpdated, e.ID))
	return e, nil
}

// DeleteExpense removes an expense.
func (s *LedgerService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return s.recordFailure(model.EntityExpense, opDelete, fmt.Errorf("failed to delete expense: %w", err))
	}

	s.afterWrite(ctx, model.EntityExpense, opDelete, events.New(events.ExpenseDeleted, id))
	return nil
}
