package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Pass outcomes.
const (
	OutcomeClean     = "clean"
	OutcomeIssues    = "issues"
	OutcomeConflicts = "conflicts"
	OutcomeFailed    = "failed"
)

// Recorder defines observability hooks for pipeline passes and stages.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObservePassDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncPassOutcome(outcome string) // outcome: clean|issues|conflicts|failed
	AddIssues(kind string, n int)
	AddConflicts(n int)
	SetTreeSize(sidebar string, docs, categories, depth int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObservePassDuration(time.Duration)          {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncPassOutcome(string)                      {}
func (NoopRecorder) AddIssues(string, int)                      {}
func (NoopRecorder) AddConflicts(int)                           {}
func (NoopRecorder) SetTreeSize(string, int, int, int)          {}
