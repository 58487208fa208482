// Package service provides business logic for the application.
package service

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/groupfund/groupfund/internal/events"
	"github.com/groupfund/groupfund/internal/metrics"
	"github.com/groupfund/groupfund/internal/model"
	"github.com/groupfund/groupfund/internal/storage"
)

// Mutation operations used in metric labels.
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// SummaryCache stores computed summaries keyed by a generation counter.
// *cache.Cache implements it.
type SummaryCache interface {
	GetSummary(ctx context.Context) ([]byte, int64, bool, error)
	SetSummary(ctx context.Context, gen int64, data []byte) error
	InvalidateSummary(ctx context.Context) error
}

// noopSummaryCache always misses.
type noopSummaryCache struct{}

func (noopSummaryCache) GetSummary(context.Context) ([]byte, int64, bool, error) {
	return nil, 0, false, nil
}
func (noopSummaryCache) SetSummary(context.Context, int64, []byte) error { return nil }
func (noopSummaryCache) InvalidateSummary(context.Context) error         { return nil }

// LedgerService validates and applies writes to the ledger.
type LedgerService struct {
	store     storage.Store
	cache     SummaryCache
	publisher events.Publisher
	metrics   metrics.Recorder
	now       func() time.Time

	// staleSummary is set when a write could not invalidate the summary
	// cache. Cached summaries are not served until an invalidation succeeds.
	staleSummary atomic.Bool
}

// NewLedgerService creates a new LedgerService. A nil cache, publisher or
// recorder disables that concern.
func NewLedgerService(store storage.Store, summaryCache SummaryCache, publisher events.Publisher, recorder metrics.Recorder) *LedgerService {
	if summaryCache == nil {
		summaryCache = noopSummaryCache{}
	}
	if publisher == nil {
		publisher = events.NewNoop()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LedgerService{
		store:     store,
		cache:     summaryCache,
		publisher: publisher,
		metrics:   recorder,
		now:       storageNow,
	}
}

// storageNow returns the current UTC time at the precision both engines keep.
func storageNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func newID() string {
	return ulid.Make().String()
}

// normalizeDate returns the stored form of an optional date.
func normalizeDate(date *time.Time, fallback time.Time) time.Time {
	if date == nil || date.IsZero() {
		return fallback
	}
	return date.UTC().Truncate(time.Microsecond)
}

func requireID(field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", model.NewValidationError(field, "is required")
	}
	return id, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	amount, err := model.ParseAmount(field, raw)
	if err != nil {
		return amount, err
	}
	if err := model.ValidateAmount(field, amount); err != nil {
		return amount, err
	}
	return amount, nil
}

// recordFailure counts a failed write and passes err through.
func (s *LedgerService) recordFailure(entity, op string, err error) error {
	s.metrics.IncMutationFailure(entity, op, model.ErrorKind(err))
	return err
}

// afterWrite runs the side effects of a committed write. Failures are
// logged and never returned: the write itself already succeeded.
func (s *LedgerService) afterWrite(ctx context.Context, entity, op string, event events.Event) {
	s.metrics.IncMutation(entity, op)

	if err := s.cache.InvalidateSummary(ctx); err != nil {
		s.staleSummary.Store(true)
		slog.Warn("summary_invalidate_failed", "entity", entity, "op", op, "error", err)
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.IncEventPublished(metrics.StatusFailed)
		slog.Warn("event_publish_failed", "type", event.Type, "entity_id", event.EntityID, "error", err)
		return
	}
	s.metrics.IncEventPublished(metrics.StatusSuccess)
}

// retryInvalidation repeats a failed summary invalidation. It reports
// whether the summary cache may be read. The flag is cleared before the
// attempt so a write failing concurrently marks the cache stale again.
func (s *LedgerService) retryInvalidation(ctx context.Context) bool {
	if !s.staleSummary.Swap(false) {
		return true
	}
	if err := s.cache.InvalidateSummary(ctx); err != nil {
		s.staleSummary.Store(true)
		slog.Warn("summary_invalidate_retry_failed", "error", err)
		return false
	}
	slog.Info("summary_invalidate_recovered")
	return true
}
