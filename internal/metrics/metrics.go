// Package metrics provides lightweight hooks for instrumentation.
package metrics

import (
	"net/http"
	"time"
)

// Event publish outcomes.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// Ledger write metrics, labelled by entity (deposit, expense, ...) and
	// operation (create, update, delete).
	IncMutation(entity, op string)
	IncMutationFailure(entity, op, kind string)

	// Summary metrics
	IncSummaryCacheHit()
	IncSummaryCacheMiss()
	ObserveSummaryDuration(duration time.Duration)

	// Change event metrics
	IncEventPublished(status string)

	IncRateLimited(route string)
}

// Exposer serves the recorded metrics over HTTP.
type Exposer interface {
	Handler() http.Handler
}
