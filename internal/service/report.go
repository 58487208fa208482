package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/groupfund/groupfund/internal/model"
	"github.com/groupfund/groupfund/internal/settlement"
)

// DefaultRecentLimit is the number of recent expenses and deposits returned
// by Bootstrap when no limit is configured.
const DefaultRecentLimit = 50

// ReportService serves the read-side views.
type ReportService struct {
	ledger      *LedgerService
	recentLimit int
}

// NewReportService creates a new ReportService sharing the ledger's store,
// cache and metrics.
func NewReportService(ledger *LedgerService, recentLimit int) *ReportService {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &ReportService{ledger: ledger, recentLimit: recentLimit}
}

// Bootstrap is everything a client needs to render the group.
type Bootstrap struct {
	Participants []*model.Participant
	Categories   []*model.Category
	Expenses     []*model.Expense
	Deposits     []*model.Deposit
	ServerTime   time.Time
}

// Summary computes the settlement summary over all records. Results are
// served from the cache while no write has happened since they were stored.
// After a write failed to invalidate the cache, the cache is bypassed until
// the invalidation is retried successfully.
func (s *ReportService) Summary(ctx context.Context) (settlement.Summary, error) {
	l := s.ledger

	if !l.retryInvalidation(ctx) {
		l.metrics.IncSummaryCacheMiss()
		return s.computeTimed(ctx)
	}

	data, gen, hit, err := l.cache.GetSummary(ctx)
	if err != nil {
		slog.Warn("summary_cache_read_failed", "error", err)
	}
	if hit {
		var summary settlement.Summary
		if err := json.Unmarshal(data, &summary); err == nil {
			l.metrics.IncSummaryCacheHit()
			return summary, nil
		}
		slog.Warn("summary_cache_decode_failed", "generation", gen)
	}
	l.metrics.IncSummaryCacheMiss()

	summary, err := s.computeTimed(ctx)
	if err != nil {
		return settlement.Summary{}, err
	}

	if encoded, err := json.Marshal(summary); err == nil {
		if err := l.cache.SetSummary(ctx, gen, encoded); err != nil {
			slog.Warn("summary_cache_write_failed", "error", err)
		}
	}
	return summary, nil
}

func (s *ReportService) computeTimed(ctx context.Context) (settlement.Summary, error) {
	start := time.Now()
	summary, err := s.compute(ctx)
	if err != nil {
		return settlement.Summary{}, err
	}
	s.ledger.metrics.ObserveSummaryDuration(time.Since(start))
	return summary, nil
}

func (s *ReportService) compute(ctx context.Context) (settlement.Summary, error) {
	var (
		participants []*model.Participant
		expenses     []*model.Expense
		deposits     []*model.Deposit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.ledger.store.ListParticipants(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.ledger.store.ListExpenses(gctx, 0)
		return err
	})
	g.Go(func() error {
		var err error
		deposits, err = s.ledger.store.ListDeposits(gctx, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return settlement.Summary{}, fmt.Errorf("failed to load records: %w", err)
	}

	return settlement.Calculate(participants, expenses, deposits), nil
}

// Bootstrap loads participants, categories and the most recent expenses
// and deposits. Categories are seeded when none exist and returned sorted
// by name.
func (s *ReportService) Bootstrap(ctx context.Context) (*Bootstrap, error) {
	out := &Bootstrap{ServerTime: time.Now().UTC()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Participants, err = s.ledger.ListParticipants(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Categories, err = s.ledger.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Expenses, err = s.ledger.ListExpenses(gctx, s.recentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		out.Deposits, err = s.ledger.ListDeposits(gctx, s.recentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load bootstrap: %w", err)
	}

	sort.SliceStable(out.Categories, func(i, j int) bool {
		return out.Categories[i].Name < out.Categories[j].Name
	})
	return out, nil
}
