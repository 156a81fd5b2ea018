package metrics

import "time"

// BlockOutcome enumerates per-block result categories for counters.
type BlockOutcome string

const (
	BlockEmbedded    BlockOutcome = "embedded"
	BlockParseFailed BlockOutcome = "parse_failed"
	BlockGeometry    BlockOutcome = "geometry_failed"
	BlockInternal    BlockOutcome = "internal_error"
)

// Recorder defines observability hooks for transform, block and asset probe
// metrics. All methods must be safe to call concurrently.
type Recorder interface {
	ObserveTransformDuration(d time.Duration)
	IncBlockOutcome(outcome BlockOutcome)
	ObserveProbeDuration(source string, d time.Duration, success bool)
	IncProbeRetry(source string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveTransformDuration(time.Duration)           {}
func (NoopRecorder) IncBlockOutcome(BlockOutcome)                     {}
func (NoopRecorder) ObserveProbeDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncProbeRetry(string)                             {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
