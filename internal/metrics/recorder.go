package metrics

import "time"

// Outcome enumerates how a single reference resolution ended.
type Outcome string

const (
	OutcomeResolved     Outcome = "resolved"
	OutcomeUnknownAlias Outcome = "unknown_alias"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeUnreachable  Outcome = "unreachable"
)

// Recorder defines observability hooks for reference resolution.
type Recorder interface {
	IncResolution(outcome Outcome)
	ObserveIndexLoad(source string, d time.Duration, success bool)
	IncSourceDropped()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncResolution(Outcome)                         {}
func (NoopRecorder) ObserveIndexLoad(string, time.Duration, bool) {}
func (NoopRecorder) IncSourceDropped()                             {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
