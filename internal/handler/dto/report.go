package dto

import (
	"time"

	"github.com/groupfund/groupfund/internal/service"
	"github.com/groupfund/groupfund/internal/settlement"
)

// SettlementRow is one participant's position in the summary.
type SettlementRow struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Contribution  string `json:"contribution"`
	Delta         string `json:"delta"`
	Status        string `json:"status"`
	AmountDue     string `json:"amount_due"`
}

// CategoryCostRow is the spend in one category.
type CategoryCostRow struct {
	Name    string `json:"name"`
	Cost    string `json:"cost"`
	Percent string `json:"percent"`
}

// SummaryResponse is the settlement summary.
type SummaryResponse struct {
	TotalSpent      string            `json:"total_spent"`
	TotalCollected  string            `json:"total_collected"`
	Balance         string            `json:"balance"`
	IndividualShare string            `json:"individual_share"`
	TotalDue        string            `json:"total_due"`
	Participants    []SettlementRow   `json:"participants"`
	Categories      []CategoryCostRow `json:"categories"`
}

// ToSummaryResponse converts a computed summary, rounding amounts to cents.
func ToSummaryResponse(s settlement.Summary) *SummaryResponse {
	out := &SummaryResponse{
		TotalSpent:      formatAmount(s.TotalSpent),
		TotalCollected:  formatAmount(s.TotalCollected),
		Balance:         formatAmount(s.Balance),
		IndividualShare: formatAmount(s.IndividualShare),
		TotalDue:        formatAmount(s.TotalDue()),
		Participants:    make([]SettlementRow, 0, len(s.Participants)),
		Categories:      make([]CategoryCostRow, 0, len(s.Categories)),
	}
	for _, p := range s.Participants {
		out.Participants = append(out.Participants, SettlementRow{
			ParticipantID: p.ParticipantID,
			Name:          p.Name,
			Contribution:  formatAmount(p.Contribution),
			Delta:         formatAmount(p.Delta),
			Status:        string(p.Status),
			AmountDue:     formatAmount(p.AmountDue),
		})
	}
	for _, c := range s.Categories {
		out.Categories = append(out.Categories, CategoryCostRow{
			Name:    c.Name,
			Cost:    formatAmount(c.Cost),
			Percent: formatAmount(c.Percent),
		})
	}
	return out
}

// BootstrapResponse carries everything a client needs to render the group.
type BootstrapResponse struct {
	Participants []*ParticipantResponse `json:"participants"`
	Categories   []*CategoryResponse    `json:"categories"`
	Expenses     []*ExpenseResponse     `json:"expenses"`
	Deposits     []*DepositResponse     `json:"deposits"`
	ServerTime   time.Time              `json:"server_time"`
}

// ToBootstrapResponse converts a bootstrap snapshot.
func ToBootstrapResponse(b *service.Bootstrap) *BootstrapResponse {
	return &BootstrapResponse{
		Participants: ToParticipantList(b.Participants),
		Categories:   ToCategoryList(b.Categories),
		Expenses:     ToExpenseList(b.Expenses),
		Deposits:     ToDepositList(b.Deposits),
		ServerTime:   b.ServerTime,
	}
}
