package monitor

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/palm-client/common/config"
	"github.com/Laisky/palm-client/common/metrics"
	"github.com/Laisky/palm-client/monitor/otel"
	"github.com/Laisky/palm-client/monitor/prometheus"
)

func withBackend(t *testing.T, backend string) {
	t.Helper()
	prev := config.MetricsBackend
	config.MetricsBackend = backend
	t.Cleanup(func() {
		config.MetricsBackend = prev
		metrics.GlobalRecorder = &metrics.NoOpRecorder{}
		promRecorder = nil
	})
}

func TestInitMonitoringBackends(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		withBackend(t, "none")
		require.NoError(t, InitMonitoring("v", "b", runtime.Version(), time.Now()))
		require.IsType(t, &metrics.NoOpRecorder{}, metrics.GlobalRecorder)
		require.Nil(t, Handler())
	})

	t.Run("prometheus", func(t *testing.T) {
		withBackend(t, "prometheus")
		require.NoError(t, InitMonitoring("v", "b", runtime.Version(), time.Now()))
		require.IsType(t, &prometheus.PrometheusRecorder{}, metrics.GlobalRecorder)
		require.NotNil(t, Handler())
	})

	t.Run("otel", func(t *testing.T) {
		withBackend(t, "otel")
		require.NoError(t, InitMonitoring("v", "b", runtime.Version(), time.Now()))
		require.IsType(t, &otel.OtelRecorder{}, metrics.GlobalRecorder)
		require.Nil(t, Handler())
	})

	t.Run("both", func(t *testing.T) {
		withBackend(t, "both")
		require.NoError(t, InitMonitoring("v", "b", runtime.Version(), time.Now()))
		multi, ok := metrics.GlobalRecorder.(*metrics.MultiRecorder)
		require.True(t, ok)
		require.Len(t, multi.Recorders, 2)
		require.NotNil(t, Handler())
	})

	t.Run("unknown", func(t *testing.T) {
		withBackend(t, "statsd")
		require.Error(t, InitMonitoring("v", "b", runtime.Version(), time.Now()))
	})
}
