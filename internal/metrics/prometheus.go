package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "groupfund"

// PrometheusRecorder records metrics into a private Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	mutations        *prometheus.CounterVec
	mutationFailures *prometheus.CounterVec
	summaryCache     *prometheus.CounterVec
	summaryDuration  prometheus.Histogram
	eventsPublished  *prometheus.CounterVec
	rateLimited      *prometheus.CounterVec
}

// NewPrometheus creates a recorder with Go runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &PrometheusRecorder{
		registry: reg,
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_mutations_total",
			Help:      "Successful ledger writes.",
		}, []string{"entity", "op"}),
		mutationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_mutation_failures_total",
			Help:      "Failed ledger writes by error kind.",
		}, []string{"entity", "op", "kind"}),
		summaryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summary_cache_requests_total",
			Help:      "Summary cache lookups by result.",
		}, []string{"result"}),
		summaryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summary_duration_seconds",
			Help:      "Time spent loading records and computing the summary.",
			Buckets:   prometheus.DefBuckets,
		}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Change events published by outcome.",
		}, []string{"status"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"route"}),
	}

	reg.MustRegister(
		r.mutations,
		r.mutationFailures,
		r.summaryCache,
		r.summaryDuration,
		r.eventsPublished,
		r.rateLimited,
	)
	return r
}

func (r *PrometheusRecorder) IncMutation(entity, op string) {
	r.mutations.WithLabelValues(entity, op).Inc()
}

func (r *PrometheusRecorder) IncMutationFailure(entity, op, kind string) {
	r.mutationFailures.WithLabelValues(entity, op, kind).Inc()
}

func (r *PrometheusRecorder) IncSummaryCacheHit() {
	r.summaryCache.WithLabelValues("hit").Inc()
}

func (r *PrometheusRecorder) IncSummaryCacheMiss() {
	r.summaryCache.WithLabelValues("miss").Inc()
}

func (r *PrometheusRecorder) ObserveSummaryDuration(duration time.Duration) {
	r.summaryDuration.Observe(duration.Seconds())
}

func (r *PrometheusRecorder) IncEventPublished(status string) {
	r.eventsPublished.WithLabelValues(status).Inc()
}

func (r *PrometheusRecorder) IncRateLimited(route string) {
	r.rateLimited.WithLabelValues(route).Inc()
}

// Registry returns the underlying registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
