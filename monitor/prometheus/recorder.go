// Package prometheus records client metrics into a private Prometheus registry.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements the MetricsRecorder interface using Prometheus.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	callDuration       *prometheus.HistogramVec
	callsTotal         *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	probeDuration      *prometheus.HistogramVec
	probesTotal        *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	httpRequestsTotal  *prometheus.CounterVec
	httpActive         *prometheus.GaugeVec
	errorsTotal        *prometheus.CounterVec
	buildInfo          *prometheus.GaugeVec
	startTime          prometheus.Gauge
}

// NewPrometheusRecorder registers every collector on a fresh registry,
// together with the Go runtime and process collectors.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "palm_call_duration_seconds",
			Help:    "Duration of generateText calls in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"operation", "model_version", "outcome"}),
		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "palm_calls_total",
			Help: "Total number of generateText calls by outcome.",
		}, []string{"operation", "model_version", "outcome"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "palm_validation_failures_total",
			Help: "Requests rejected before any network I/O.",
		}, []string{"operation", "code"}),
		probeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "palm_probe_duration_seconds",
			Help:    "Duration of model liveness probes in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"model_version", "success"}),
		probesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "palm_probes_total",
			Help: "Total number of model liveness probes.",
		}, []string{"model_version", "success"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "palm_http_request_duration_seconds",
			Help:    "Duration of HTTP facade requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method", "status_code"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "palm_http_requests_total",
			Help: "Total number of HTTP facade requests.",
		}, []string{"path", "method", "status_code"}),
		httpActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "palm_http_active_requests",
			Help: "Number of active HTTP facade requests.",
		}, []string{"path", "method"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "palm_errors_total",
			Help: "Total number of errors.",
		}, []string{"error_type", "component"}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "palm_build_info",
			Help: "Build information, always 1.",
		}, []string{"version", "build_time", "go_version"}),
		startTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "palm_start_time_seconds",
			Help: "Unix time the process started.",
		}),
	}

	r.registry.MustRegister(
		r.callDuration, r.callsTotal, r.validationFailures,
		r.probeDuration, r.probesTotal,
		r.httpDuration, r.httpRequestsTotal, r.httpActive,
		r.errorsTotal, r.buildInfo, r.startTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *PrometheusRecorder) RecordHTTPRequest(startTime time.Time, path, method, statusCode string) {
	r.httpDuration.WithLabelValues(path, method, statusCode).Observe(time.Since(startTime).Seconds())
	r.httpRequestsTotal.WithLabelValues(path, method, statusCode).Inc()
}

func (r *PrometheusRecorder) RecordHTTPActiveRequest(path, method string, delta float64) {
	r.httpActive.WithLabelValues(path, method).Add(delta)
}

func (r *PrometheusRecorder) RecordCall(startTime time.Time, operation, modelVersion, outcome string) {
	r.callDuration.WithLabelValues(operation, modelVersion, outcome).Observe(time.Since(startTime).Seconds())
	r.callsTotal.WithLabelValues(operation, modelVersion, outcome).Inc()
}

func (r *PrometheusRecorder) RecordValidationFailure(operation, code string) {
	r.validationFailures.WithLabelValues(operation, code).Inc()
}

func (r *PrometheusRecorder) RecordProbe(startTime time.Time, modelVersion string, success bool) {
	s := strconv.FormatBool(success)
	r.probeDuration.WithLabelValues(modelVersion, s).Observe(time.Since(startTime).Seconds())
	r.probesTotal.WithLabelValues(modelVersion, s).Inc()
}

func (r *PrometheusRecorder) RecordError(errorType, component string) {
	r.errorsTotal.WithLabelValues(errorType, component).Inc()
}

func (r *PrometheusRecorder) InitSystemMetrics(version, buildTime, goVersion string, startTime time.Time) {
	r.buildInfo.WithLabelValues(version, buildTime, goVersion).Set(1)
	r.startTime.Set(float64(startTime.Unix()))
}
