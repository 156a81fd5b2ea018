package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	transformDuration prom.Histogram
	blockOutcomes     *prom.CounterVec
	probeDuration     *prom.HistogramVec
	probeRetries      *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.transformDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docleaflet",
			Name:      "transform_duration_seconds",
			Help:      "Duration of a full document transform",
			Buckets:   prom.DefBuckets,
		})
		pr.blockOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docleaflet",
			Name:      "block_outcomes_total",
			Help:      "Map block results by outcome",
		}, []string{"outcome"})
		pr.probeDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docleaflet",
			Name:      "asset_probe_duration_seconds",
			Help:      "Duration of image dimension probes",
			Buckets:   prom.DefBuckets,
		}, []string{"source", "result"})
		pr.probeRetries = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docleaflet",
			Name:      "asset_probe_retries_total",
			Help:      "Retries of remote image fetches after transient failures",
		}, []string{"source"})
		reg.MustRegister(pr.transformDuration, pr.blockOutcomes, pr.probeDuration, pr.probeRetries)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveTransformDuration(d time.Duration) {
	if p == nil || p.transformDuration == nil {
		return
	}
	p.transformDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBlockOutcome(outcome BlockOutcome) {
	if p == nil || p.blockOutcomes == nil {
		return
	}
	p.blockOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveProbeDuration(source string, d time.Duration, success bool) {
	if p == nil || p.probeDuration == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.probeDuration.WithLabelValues(source, res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncProbeRetry(source string) {
	if p == nil || p.probeRetries == nil {
		return
	}
	p.probeRetries.WithLabelValues(source).Inc()
}
