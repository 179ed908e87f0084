// Package metrics defines the observability hooks of the content pipeline and
// a Prometheus implementation of them.
package metrics

import "time"

// ResultLabel enumerates transform result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder receives pipeline measurements. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveFetchDuration(query string, d time.Duration, success bool)
	IncTransform(kind string, result ResultLabel)
	IncDroppedAsset(kind string)
	IncCacheLookup(hit bool)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveFetchDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncTransform(string, ResultLabel)                 {}
func (NoopRecorder) IncDroppedAsset(string)                           {}
func (NoopRecorder) IncCacheLookup(bool)                              {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)               {}
func (NoopRecorder) IncBuildOutcome(string)                           {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
