// Package storage defines the ledger store abstraction and opens the
// configured engine.
package storage

import (
	"context"

	"github.com/groupfund/groupfund/internal/model"
)

// Store persists participants, categories, expenses and deposits.
//
// Deposit writes keep each participant's TotalContributed equal to the sum
// of that participant's deposits: the record change and the total
// adjustments commit in one transaction or not at all.
type Store interface {
	Ping(ctx context.Context) error
	Close()

	CreateParticipant(ctx context.Context, p *model.Participant) error
	GetParticipant(ctx context.Context, id string) (*model.Participant, error)
	// ListParticipants returns participants sorted by name, then id.
	ListParticipants(ctx context.Context) ([]*model.Participant, error)

	// CreateCategory returns model.ErrConflict when the name is taken.
	CreateCategory(ctx context.Context, c *model.Category) error
	// ListCategories returns categories in creation order.
	ListCategories(ctx context.Context) ([]*model.Category, error)
	// EnsureDefaultCategories inserts defaults only when no category exists.
	// It returns the number of rows inserted.
	EnsureDefaultCategories(ctx context.Context, defaults []*model.Category) (int, error)

	CreateExpense(ctx context.Context, e *model.Expense) error
	GetExpense(ctx context.Context, id string) (*model.Expense, error)
	UpdateExpense(ctx context.Context, e *model.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	// ListExpenses returns the newest expenses first; limit <= 0 means all.
	ListExpenses(ctx context.Context, limit int) ([]*model.Expense, error)

	// CreateDeposit inserts d and credits its contributor.
	CreateDeposit(ctx context.Context, d *model.Deposit) error
	GetDeposit(ctx context.Context, id string) (*model.Deposit, error)
	// UpdateDeposit applies change under a row lock and returns the stored
	// deposit along with its previous state.
	UpdateDeposit(ctx context.Context, id string, change model.DepositChange) (updated, previous *model.Deposit, err error)
	// DeleteDeposit removes the deposit, debits its contributor and returns
	// the removed record.
	DeleteDeposit(ctx context.Context, id string) (*model.Deposit, error)
	// ListDeposits returns the newest deposits first; limit <= 0 means all.
	ListDeposits(ctx context.Context, limit int) ([]*model.Deposit, error)

	// ContributionDrift reports participants whose cached total differs from
	// the sum of their deposits.
	ContributionDrift(ctx context.Context) ([]model.Drift, error)
}
