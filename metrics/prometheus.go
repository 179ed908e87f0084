package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portablepress"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	fetchDuration *prom.HistogramVec
	transforms    *prom.CounterVec
	droppedAssets *prom.CounterVec
	cacheLookups  *prom.CounterVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		fetchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of upstream content queries",
			Buckets:   prom.DefBuckets,
		}, []string{"query", "result"}),
		transforms: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "transforms_total",
			Help:      "Document transforms by kind and result",
		}, []string{"kind", "result"}),
		droppedAssets: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_assets_total",
			Help:      "Image references that could not be resolved",
		}, []string{"kind"}),
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Source cache lookups by hit or miss",
		}, []string{"result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total artifact build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Builds by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.fetchDuration, pr.transforms, pr.droppedAssets, pr.cacheLookups, pr.buildDuration, pr.buildOutcome)
	return pr
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (p *PrometheusRecorder) ObserveFetchDuration(query string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	p.fetchDuration.WithLabelValues(query, resultOf(success)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTransform(kind string, result ResultLabel) {
	if p == nil {
		return
	}
	p.transforms.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) IncDroppedAsset(kind string) {
	if p == nil {
		return
	}
	p.droppedAssets.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncCacheLookup(hit bool) {
	if p == nil {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	p.cacheLookups.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func resultOf(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}
