// Package metrics records resolution and index-loading outcomes.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics cost nothing unless a host asks for them:
//
//	reg := prometheus.NewRegistry()
//	engine, err := javadocref.New(cfg, javadocref.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The CLI writes the registry to a Prometheus textfile at exit when
// --metrics-file is set.
package metrics
