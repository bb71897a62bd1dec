package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "navbuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	stageDuration *prom.HistogramVec
	passDuration  prom.Histogram
	stageResults  *prom.CounterVec
	passOutcome   *prom.CounterVec
	issues        *prom.CounterVec
	conflicts     prom.Counter
	treeDocs      *prom.GaugeVec
	treeCats      *prom.GaugeVec
	treeDepth     *prom.GaugeVec
}

func histogram(name, help string) prom.HistogramOpts {
	return prom.HistogramOpts{Namespace: namespace, Name: name, Help: help, Buckets: prom.DefBuckets}
}

func counter(name, help string) prom.CounterOpts {
	return prom.CounterOpts{Namespace: namespace, Name: name, Help: help}
}

func gauge(name, help string) prom.GaugeOpts {
	return prom.GaugeOpts{Namespace: namespace, Name: name, Help: help}
}

// NewPrometheusRecorder registers the navbuilder metrics on reg, or on a
// fresh registry when reg is nil. Registering twice on one registry panics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	sidebar := []string{"sidebar"}
	pr := &PrometheusRecorder{
		reg:           reg,
		stageDuration: prom.NewHistogramVec(histogram("stage_duration_seconds", "Duration of individual pipeline stages"), []string{"stage"}),
		passDuration:  prom.NewHistogram(histogram("pass_duration_seconds", "Total duration of a pipeline pass")),
		stageResults:  prom.NewCounterVec(counter("stage_results_total", "Stage result counts by outcome"), []string{"stage", "result"}),
		passOutcome:   prom.NewCounterVec(counter("pass_outcomes_total", "Pipeline pass outcomes"), []string{"outcome"}),
		issues:        prom.NewCounterVec(counter("validation_issues_total", "Validation issues by kind"), []string{"kind"}),
		conflicts:     prom.NewCounter(counter("merge_conflicts_total", "Placement conflicts resolved during merges")),
		treeDocs:      prom.NewGaugeVec(gauge("tree_documents", "Document references in the last tree per sidebar"), sidebar),
		treeCats:      prom.NewGaugeVec(gauge("tree_categories", "Categories in the last tree per sidebar"), sidebar),
		treeDepth:     prom.NewGaugeVec(gauge("tree_depth", "Maximum nesting depth of the last tree per sidebar"), sidebar),
	}
	reg.MustRegister(pr.stageDuration, pr.passDuration, pr.stageResults, pr.passOutcome,
		pr.issues, pr.conflicts, pr.treeDocs, pr.treeCats, pr.treeDepth)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

// WriteTextfile writes every registered metric to path in the text
// exposition format, atomically, for the node-exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
func (p *PrometheusRecorder) ObservePassDuration(d time.Duration) {
	if p == nil || p.passDuration == nil {
		return
	}
	p.passDuration.Observe(d.Seconds())
}
func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}
func (p *PrometheusRecorder) IncPassOutcome(outcome string) {
	if p == nil || p.passOutcome == nil {
		return
	}
	p.passOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddIssues(kind string, n int) {
	if p == nil || p.issues == nil || n <= 0 {
		return
	}
	p.issues.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) AddConflicts(n int) {
	if p == nil || p.conflicts == nil || n <= 0 {
		return
	}
	p.conflicts.Add(float64(n))
}

func (p *PrometheusRecorder) SetTreeSize(sidebar string, docs, categories, depth int) {
	if p == nil || p.treeDocs == nil {
		return
	}
	p.treeDocs.WithLabelValues(sidebar).Set(float64(docs))
	p.treeCats.WithLabelValues(sidebar).Set(float64(categories))
	p.treeDepth.WithLabelValues(sidebar).Set(float64(depth))
}
