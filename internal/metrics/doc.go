// Package metrics records pipeline observability data for navbuilder.
//
// Components receive a Recorder and default to NoopRecorder, so metrics
// collection needs no nil checks anywhere in the pipeline:
//
//	svc := build.NewService(build.WithRecorder(metrics.NewPrometheusRecorder(nil)))
//
// PrometheusRecorder keeps its own registry. navbuilder is a short-lived CLI,
// so instead of serving /metrics it writes the registry to a node-exporter
// textfile (WriteTextfile) at the end of each run or watch pass.
package metrics
