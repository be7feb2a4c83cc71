// Package metrics provides observability hooks for conversion runs.
//
// Components receive a Recorder through dependency injection; NoopRecorder
// is the default, so metrics come at zero cost unless a real implementation
// (Prometheus, in watch mode) is injected.
package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for run and stage metrics. All
// methods must be cheap no-ops in the NoopRecorder so optional injection
// stays free.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome string) // outcome: success|failed|canceled
	ObserveConvertDuration(d time.Duration, success bool)
	IncConvertResult(success bool)
	SetConvertConcurrency(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)  {}
func (NoopRecorder) ObserveRunDuration(time.Duration)            {}
func (NoopRecorder) IncStageResult(string, ResultLabel)          {}
func (NoopRecorder) IncRunOutcome(string)                        {}
func (NoopRecorder) ObserveConvertDuration(time.Duration, bool)  {}
func (NoopRecorder) IncConvertResult(bool)                       {}
func (NoopRecorder) SetConvertConcurrency(int)                   {}
