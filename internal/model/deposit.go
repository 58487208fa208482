package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Deposit is money a participant put into the shared fund.
type Deposit struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	ContributorID string          `json:"contributor_id"`
	// Contributor is resolved on read.
	Contributor *Participant `json:"contributor"`
	Date        time.Time    `json:"date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// DepositChange holds the new values for a deposit update.
// A nil Date keeps the stored date.
type DepositChange struct {
	Amount        decimal.Decimal
	ContributorID string
	Date          *time.Time
}

// Adjustment is a signed change to one participant's running total.
type Adjustment struct {
	ParticipantID string
	Delta         decimal.Decimal
}

// CreditAdjustments returns the total adjustments for a new deposit.
func CreditAdjustments(d *Deposit) []Adjustment {
	return []Adjustment{{ParticipantID: d.ContributorID, Delta: d.Amount}}
}

// DebitAdjustments returns the total adjustments for removing a deposit.
func DebitAdjustments(d *Deposit) []Adjustment {
	return []Adjustment{{ParticipantID: d.ContributorID, Delta: d.Amount.Neg()}}
}

// DepositAdjustments returns the total adjustments needed to move a deposit
// from its stored state to change. When neither contributor nor amount
// changes it returns nil: date-only edits never touch totals. Otherwise the
// old contribution is reversed and the new one applied, even when the
// contributor stays the same.
//
// Adjustments are ordered by participant id so concurrent updates lock
// participant rows in the same order.
func DepositAdjustments(old *Deposit, change DepositChange) []Adjustment {
	if old.ContributorID == change.ContributorID && old.Amount.Equal(change.Amount) {
		return nil
	}
	adjustments := []Adjustment{
		{ParticipantID: old.ContributorID, Delta: old.Amount.Neg()},
		{ParticipantID: change.ContributorID, Delta: change.Amount},
	}
	sort.SliceStable(adjustments, func(i, j int) bool {
		return adjustments[i].ParticipantID < adjustments[j].ParticipantID
	})
	return adjustments
}
