// Package settlement computes the group's fund summary from the full record set.
package settlement

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/groupfund/groupfund/internal/model"
)

// DivisionPrecision is the number of fractional digits kept when dividing.
const DivisionPrecision = 16

// Status describes whether a participant still owes the fund.
type Status string

const (
	StatusToPay   Status = "to_pay"
	StatusSettled Status = "settled"
)

// ParticipantSettlement is one participant's position against the fair share.
type ParticipantSettlement struct {
	ParticipantID string
	Name          string
	Contribution  decimal.Decimal
	// Delta is Contribution minus the individual share, rounded to cents;
	// negative means the participant has paid less than their share.
	Delta     decimal.Decimal
	Status    Status
	AmountDue decimal.Decimal
}

// CategoryCost is the total spent in one category.
type CategoryCost struct {
	Name    string
	Cost    decimal.Decimal
	Percent decimal.Decimal
}

// Summary is the derived view over all records.
type Summary struct {
	TotalSpent      decimal.Decimal
	TotalCollected  decimal.Decimal
	Balance         decimal.Decimal
	IndividualShare decimal.Decimal
	Participants    []ParticipantSettlement
	Categories      []CategoryCost
}

var hundred = decimal.NewFromInt(100)

// Calculate derives totals, fair share, settlement deltas and per-category
// costs. Contributions are summed from deposits rather than read from the
// participants' cached totals. Nil records are skipped.
func Calculate(participants []*model.Participant, expenses []*model.Expense, deposits []*model.Deposit) Summary {
	totalSpent := decimal.Zero
	costs := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		if e == nil {
			continue
		}
		totalSpent = totalSpent.Add(e.Amount)
		name := e.CategoryName()
		costs[name] = costs[name].Add(e.Amount)
	}

	totalCollected := decimal.Zero
	contributions := make(map[string]decimal.Decimal)
	for _, d := range deposits {
		if d == nil {
			continue
		}
		totalCollected = totalCollected.Add(d.Amount)
		contributions[d.ContributorID] = contributions[d.ContributorID].Add(d.Amount)
	}

	count := 0
	for _, p := range participants {
		if p != nil {
			count++
		}
	}

	share := decimal.Zero
	if count > 0 {
		share = totalSpent.DivRound(decimal.NewFromInt(int64(count)), DivisionPrecision)
	}

	rows := make([]ParticipantSettlement, 0, count)
	for _, p := range participants {
		if p == nil {
			continue
		}
		contribution := contributions[p.ID]
		// A shortfall under half a cent is settled.
		delta := contribution.Sub(share).Round(model.MoneyScale)
		row := ParticipantSettlement{
			ParticipantID: p.ID,
			Name:          p.Name,
			Contribution:  contribution,
			Delta:         delta,
			Status:        StatusSettled,
			AmountDue:     decimal.Zero,
		}
		if delta.IsNegative() {
			row.Status = StatusToPay
			row.AmountDue = delta.Abs()
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ParticipantID < rows[j].ParticipantID
	})

	categories := make([]CategoryCost, 0, len(costs))
	for name, cost := range costs {
		percent := decimal.Zero
		if totalSpent.IsPositive() {
			percent = cost.Mul(hundred).DivRound(totalSpent, DivisionPrecision)
		}
		categories = append(categories, CategoryCost{Name: name, Cost: cost, Percent: percent})
	}
	sort.Slice(categories, func(i, j int) bool {
		if c := categories[i].Cost.Cmp(categories[j].Cost); c != 0 {
			return c > 0
		}
		return categories[i].Name < categories[j].Name
	})

	return Summary{
		TotalSpent:      totalSpent,
		TotalCollected:  totalCollected,
		Balance:         totalCollected.Sub(totalSpent),
		IndividualShare: share,
		Participants:    rows,
		Categories:      categories,
	}
}

// Participant returns the settlement row for id, if present.
func (s Summary) Participant(id string) (ParticipantSettlement, bool) {
	for _, p := range s.Participants {
		if p.ParticipantID == id {
			return p, true
		}
	}
	return ParticipantSettlement{}, false
}

// TotalDue sums the outstanding amounts of all participants.
func (s Summary) TotalDue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Participants {
		total = total.Add(p.AmountDue)
	}
	return total
}
