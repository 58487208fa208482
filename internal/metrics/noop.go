package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncMutation(entity, op string)              {}
func (n *NoopRecorder) IncMutationFailure(entity, op, kind string) {}
func (n *NoopRecorder) IncSummaryCacheHit()                        {}
func (n *NoopRecorder) IncSummaryCacheMiss()                       {}
func (n *NoopRecorder) ObserveSummaryDuration(time.Duration)       {}
func (n *NoopRecorder) IncEventPublished(status string)            {}
func (n *NoopRecorder) IncRateLimited(route string)                {}
