package metrics

import "time"

// ResultLabel enumerates per-document outcome categories for counters.
type ResultLabel string

const (
	ResultRendered ResultLabel = "rendered"
	ResultWarning  ResultLabel = "warning"
	ResultFailed   ResultLabel = "failed"
	ResultSkipped  ResultLabel = "skipped"
)

// Recorder defines observability hooks for pipeline metrics. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe for
// nil receivers when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveDocumentDuration(d time.Duration)
	IncDocumentResult(result ResultLabel)
	IncDirectiveExpanded(name string)
	IncWarning(kind string)
	SetCorpusSize(n int)
	SetCategoryCount(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveDocumentDuration(time.Duration)      {}
func (NoopRecorder) IncDocumentResult(ResultLabel)              {}
func (NoopRecorder) IncDirectiveExpanded(string)                {}
func (NoopRecorder) IncWarning(string)                          {}
func (NoopRecorder) SetCorpusSize(int)                          {}
func (NoopRecorder) SetCategoryCount(int)                       {}
