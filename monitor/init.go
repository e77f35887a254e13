// Package monitor selects and installs the metrics backend.
package monitor

import (
	"net/http"
	"time"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/palm-client/common/config"
	"github.com/Laisky/palm-client/common/metrics"
	"github.com/Laisky/palm-client/monitor/otel"
	"github.com/Laisky/palm-client/monitor/prometheus"
)

var promRecorder *prometheus.PrometheusRecorder

// InitMonitoring installs metrics.GlobalRecorder according to config.MetricsBackend,
// one of none, prometheus, otel or both.
func InitMonitoring(version, buildTime, goVersion string, startTime time.Time) error {
	var recorders []metrics.MetricsRecorder
	promRecorder = nil

	switch config.MetricsBackend {
	case "", "none":
	case "prometheus":
		promRecorder = prometheus.NewPrometheusRecorder()
		recorders = append(recorders, promRecorder)
	case "otel":
		otelRecorder, err := otel.NewOtelRecorder()
		if err != nil {
			return errors.Wrap(err, "create otel recorder")
		}
		recorders = append(recorders, otelRecorder)
	case "both":
		promRecorder = prometheus.NewPrometheusRecorder()
		otelRecorder, err := otel.NewOtelRecorder()
		if err != nil {
			return errors.Wrap(err, "create otel recorder")
		}
		recorders = append(recorders, promRecorder, otelRecorder)
	default:
		return errors.Errorf("unknown METRICS_BACKEND %q", config.MetricsBackend)
	}

	switch len(recorders) {
	case 0:
		metrics.GlobalRecorder = &metrics.NoOpRecorder{}
		return nil
	case 1:
		metrics.GlobalRecorder = recorders[0]
	default:
		metrics.GlobalRecorder = &metrics.MultiRecorder{Recorders: recorders}
	}

	metrics.GlobalRecorder.InitSystemMetrics(version, buildTime, goVersion, startTime)
	return nil
}

// Handler returns the Prometheus scrape handler, or nil when Prometheus is disabled.
func Handler() http.Handler {
	if promRecorder == nil {
		return nil
	}
	return promRecorder.Handler()
}
