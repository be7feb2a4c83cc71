package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics. It is
// used by watch mode, where the process lives long enough to be scraped.
type PrometheusRecorder struct {
	stageDuration      *prom.HistogramVec
	runDuration        prom.Histogram
	stageResults       *prom.CounterVec
	runOutcome         *prom.CounterVec
	convertDuration    *prom.HistogramVec
	convertResults     *prom.CounterVec
	convertConcurrency prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "doxyfx",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "doxyfx",
			Name:      "run_duration_seconds",
			Help:      "Total pipeline run duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "doxyfx",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "doxyfx",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"}),
		convertDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "doxyfx",
			Name:      "convert_duration_seconds",
			Help:      "Duration of individual file conversions",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		convertResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "doxyfx",
			Name:      "convert_results_total",
			Help:      "Conversion results by success/failure",
		}, []string{"result"}),
		convertConcurrency: prom.NewGauge(prom.GaugeOpts{
			Namespace: "doxyfx",
			Name:      "convert_concurrency",
			Help:      "Configured conversion concurrency for the last run",
		}),
	}
	reg.MustRegister(
		pr.stageDuration, pr.runDuration, pr.stageResults, pr.runOutcome,
		pr.convertDuration, pr.convertResults, pr.convertConcurrency,
	)
	return pr
}

func (pr *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	pr.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	pr.runDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	pr.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (pr *PrometheusRecorder) IncRunOutcome(outcome string) {
	pr.runOutcome.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) ObserveConvertDuration(d time.Duration, success bool) {
	pr.convertDuration.WithLabelValues(successLabel(success)).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncConvertResult(success bool) {
	pr.convertResults.WithLabelValues(successLabel(success)).Inc()
}

func (pr *PrometheusRecorder) SetConvertConcurrency(n int) {
	pr.convertConcurrency.Set(float64(n))
}

func successLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// HTTPHandler returns an http.Handler serving Prometheus metrics for the
// provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
