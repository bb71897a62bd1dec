package metrics

import "time"

// testRecorder counts calls; it also guards that the interface stays implementable.
type testRecorder struct {
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	passDurations  int
	passOutcomes   map[string]int
	issues         map[string]int
	conflicts      int
}

var (
	_ Recorder = (*testRecorder)(nil)
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}
func (t *testRecorder) ObservePassDuration(_ time.Duration) { t.passDurations++ }
func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}
func (t *testRecorder) IncPassOutcome(outcome string) { t.passOutcomes[outcome]++ }
func (t *testRecorder) AddIssues(kind string, n int)  { t.issues[kind] += n }
func (t *testRecorder) AddConflicts(n int)            { t.conflicts += n }

func (t *testRecorder) SetTreeSize(string, int, int, int) {}
