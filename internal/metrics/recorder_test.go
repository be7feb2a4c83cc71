package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncStageResult("convert", ResultSuccess)
	rec.IncStageResult("convert", ResultSuccess)
	rec.IncStageResult("link", ResultFatal)
	rec.IncRunOutcome("success")
	rec.IncConvertResult(true)
	rec.IncConvertResult(false)
	rec.SetConvertConcurrency(8)
	rec.ObserveStageDuration("convert", 120*time.Millisecond)
	rec.ObserveRunDuration(time.Second)
	rec.ObserveConvertDuration(30*time.Millisecond, true)

	require.Equal(t, 2.0, promtestutil.ToFloat64(rec.stageResults.WithLabelValues("convert", "success")))
	require.Equal(t, 1.0, promtestutil.ToFloat64(rec.stageResults.WithLabelValues("link", "fatal")))
	require.Equal(t, 1.0, promtestutil.ToFloat64(rec.runOutcome.WithLabelValues("success")))
	require.Equal(t, 1.0, promtestutil.ToFloat64(rec.convertResults.WithLabelValues("success")))
	require.Equal(t, 1.0, promtestutil.ToFloat64(rec.convertResults.WithLabelValues("failure")))
	require.Equal(t, 8.0, promtestutil.ToFloat64(rec.convertConcurrency))
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.IncStageResult("convert", ResultCanceled)
	rec.ObserveRunDuration(0)
	require.NotNil(t, rec)
}
