// Package metrics records render timings and outcomes.
//
// Components receive a Recorder and default to NoopRecorder, so metric calls
// never need nil checks. The CLI swaps in a PrometheusRecorder when a metrics
// textfile is configured and writes it once the render finishes.
package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Stage names used as metric labels
const (
	StageLoad    = "load"
	StageExpand  = "expand"
	StageRender  = "render"
	StageSandbox = "sandbox"
	StageResolve = "resolve"
)

// Recorder defines observability hooks for render and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRenderDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRenderOutcome(outcome ResultLabel)
	SetDocumentFigures(experienceYears, companies, projects int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)        {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRenderOutcome(ResultLabel)               {}
func (NoopRecorder) SetDocumentFigures(int, int, int)           {}
