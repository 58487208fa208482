package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Mutations              map[string]uint64 // key: entity.op
	MutationFailures       map[string]uint64 // key: entity.op.kind
	SummaryCacheHits       uint64
	SummaryCacheMisses     uint64
	SummaryDurationCount   uint64
	SummaryDurationTotalNs int64
	EventsPublished        map[string]uint64 // key: status
	RateLimited            map[string]uint64 // key: route
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	summaryCacheHits       uint64
	summaryCacheMisses     uint64
	summaryDurationCount   uint64
	summaryDurationTotalNs int64

	mu               sync.Mutex
	mutations        map[string]uint64
	mutationFailures map[string]uint64
	eventsPublished  map[string]uint64
	rateLimited      map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		mutations:        make(map[string]uint64),
		mutationFailures: make(map[string]uint64),
		eventsPublished:  make(map[string]uint64),
		rateLimited:      make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Mutations:              copyCounts(m.mutations),
		MutationFailures:       copyCounts(m.mutationFailures),
		SummaryCacheHits:       atomic.LoadUint64(&m.summaryCacheHits),
		SummaryCacheMisses:     atomic.LoadUint64(&m.summaryCacheMisses),
		SummaryDurationCount:   atomic.LoadUint64(&m.summaryDurationCount),
		SummaryDurationTotalNs: atomic.LoadInt64(&m.summaryDurationTotalNs),
		EventsPublished:        copyCounts(m.eventsPublished),
		RateLimited:            copyCounts(m.rateLimited),
	}
}

// IncMutation counts a successful write.
func (m *InMemoryRecorder) IncMutation(entity, op string) {
	m.inc(m.mutations, entity+"."+op)
}

// IncMutationFailure counts a failed write by error kind.
func (m *InMemoryRecorder) IncMutationFailure(entity, op, kind string) {
	m.inc(m.mutationFailures, entity+"."+op+"."+kind)
}

// IncSummaryCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncSummaryCacheHit() {
	atomic.AddUint64(&m.summaryCacheHits, 1)
}

// IncSummaryCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncSummaryCacheMiss() {
	atomic.AddUint64(&m.summaryCacheMisses, 1)
}

// ObserveSummaryDuration records summary computation time.
func (m *InMemoryRecorder) ObserveSummaryDuration(duration time.Duration) {
	atomic.AddUint64(&m.summaryDurationCount, 1)
	atomic.AddInt64(&m.summaryDurationTotalNs, duration.Nanoseconds())
}

// IncEventPublished counts change event publish attempts by outcome.
func (m *InMemoryRecorder) IncEventPublished(status string) {
	m.inc(m.eventsPublished, status)
}

// IncRateLimited counts rejected requests.
func (m *InMemoryRecorder) IncRateLimited(route string) {
	m.inc(m.rateLimited, route)
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, key string) {
	m.mu.Lock()
	counts[key]++
	m.mu.Unlock()
}

// Handler writes the counters in Prometheus text exposition format.
func (m *InMemoryRecorder) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := m.Snapshot()

		w.Header().Set("Content-Type", "text/plain; version=0.0.4")

		writeMetric(w, "groupfund_summary_cache_hits_total %d\n", snap.SummaryCacheHits)
		writeMetric(w, "groupfund_summary_cache_misses_total %d\n", snap.SummaryCacheMisses)
		writeMetric(w, "groupfund_summary_duration_seconds_count %d\n", snap.SummaryDurationCount)
		writeMetric(w, "groupfund_summary_duration_seconds_sum %.6f\n", float64(snap.SummaryDurationTotalNs)/1e9)

		for _, key := range sortedKeys(snap.Mutations) {
			writeMetric(w, "groupfund_ledger_mutations_total{key=%q} %d\n", key, snap.Mutations[key])
		}
		for _, key := range sortedKeys(snap.MutationFailures) {
			writeMetric(w, "groupfund_ledger_mutation_failures_total{key=%q} %d\n", key, snap.MutationFailures[key])
		}
		for _, key := range sortedKeys(snap.EventsPublished) {
			writeMetric(w, "groupfund_events_published_total{status=%q} %d\n", key, snap.EventsPublished[key])
		}
		for _, key := range sortedKeys(snap.RateLimited) {
			writeMetric(w, "groupfund_rate_limited_total{route=%q} %d\n", key, snap.RateLimited[key])
		}
	})
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
