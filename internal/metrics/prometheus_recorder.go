package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	resolutions    *prom.CounterVec
	indexDuration  *prom.HistogramVec
	indexLoads     *prom.CounterVec
	sourcesDropped prom.Counter
}

// NewPrometheusRecorder constructs and registers the resolution metrics on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		resolutions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "javadocref",
			Name:      "resolutions_total",
			Help:      "Reference resolutions by outcome",
		}, []string{"outcome"}),
		indexDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "javadocref",
			Name:      "index_load_duration_seconds",
			Help:      "Duration of loading one source's class index",
			Buckets:   prom.DefBuckets,
		}, []string{"source", "result"}),
		indexLoads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "javadocref",
			Name:      "index_loads_total",
			Help:      "Index loads by source and result",
		}, []string{"source", "result"}),
		sourcesDropped: prom.NewCounter(prom.CounterOpts{
			Namespace: "javadocref",
			Name:      "sources_dropped_total",
			Help:      "Configured sources dropped during normalization",
		}),
	}
	reg.MustRegister(pr.resolutions, pr.indexDuration, pr.indexLoads, pr.sourcesDropped)
	return pr
}

func (p *PrometheusRecorder) IncResolution(outcome Outcome) {
	if p == nil {
		return
	}
	p.resolutions.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveIndexLoad(source string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.indexDuration.WithLabelValues(source, res).Observe(d.Seconds())
	p.indexLoads.WithLabelValues(source, res).Inc()
}

func (p *PrometheusRecorder) IncSourceDropped() {
	if p == nil {
		return
	}
	p.sourcesDropped.Inc()
}
