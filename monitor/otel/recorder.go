// Package otel records client metrics through the global OpenTelemetry meter provider.
package otel

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "palm-client"

// OtelRecorder implements the MetricsRecorder interface using OpenTelemetry
type OtelRecorder struct {
	meter metric.Meter

	// generateText metrics
	callDuration       metric.Float64Histogram
	callsTotal         metric.Int64Counter
	validationFailures metric.Int64Counter

	// probe metrics
	probeDuration metric.Float64Histogram
	probesTotal   metric.Int64Counter

	// HTTP facade metrics
	httpRequestDuration metric.Float64Histogram
	httpRequestsTotal   metric.Int64Counter
	httpActiveRequests  metric.Float64UpDownCounter

	errorsTotal metric.Int64Counter
	buildInfo   metric.Int64Gauge
}

// NewOtelRecorder creates a new OtelRecorder
func NewOtelRecorder() (*OtelRecorder, error) {
	meter := otel.Meter(meterName)
	r := &OtelRecorder{meter: meter}

	var err error
	if r.callDuration, err = meter.Float64Histogram("palm_call_duration_seconds", metric.WithDescription("Duration of generateText calls in seconds")); err != nil {
		return nil, err
	}
	if r.callsTotal, err = meter.Int64Counter("palm_calls_total", metric.WithDescription("Total number of generateText calls by outcome")); err != nil {
		return nil, err
	}
	if r.validationFailures, err = meter.Int64Counter("palm_validation_failures_total", metric.WithDescription("Requests rejected before any network I/O")); err != nil {
		return nil, err
	}

	if r.probeDuration, err = meter.Float64Histogram("palm_probe_duration_seconds", metric.WithDescription("Duration of model liveness probes in seconds")); err != nil {
		return nil, err
	}
	if r.probesTotal, err = meter.Int64Counter("palm_probes_total", metric.WithDescription("Total number of model liveness probes")); err != nil {
		return nil, err
	}

	if r.httpRequestDuration, err = meter.Float64Histogram("palm_http_request_duration_seconds", metric.WithDescription("Duration of HTTP facade requests in seconds")); err != nil {
		return nil, err
	}
	if r.httpRequestsTotal, err = meter.Int64Counter("palm_http_requests_total", metric.WithDescription("Total number of HTTP facade requests")); err != nil {
		return nil, err
	}
	if r.httpActiveRequests, err = meter.Float64UpDownCounter("palm_http_active_requests", metric.WithDescription("Number of active HTTP facade requests")); err != nil {
		return nil, err
	}

	if r.errorsTotal, err = meter.Int64Counter("palm_errors_total", metric.WithDescription("Total number of errors")); err != nil {
		return nil, err
	}
	if r.buildInfo, err = meter.Int64Gauge("palm_build_info", metric.WithDescription("Build information, always 1")); err != nil {
		return nil, err
	}

	return r, nil
}

// RecordHTTPRequest records HTTP request metrics
func (r *OtelRecorder) RecordHTTPRequest(startTime time.Time, path, method, statusCode string) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("path", path),
		attribute.String("method", method),
		attribute.String("status_code", statusCode),
	)
	r.httpRequestDuration.Record(ctx, time.Since(startTime).Seconds(), attrs)
	r.httpRequestsTotal.Add(ctx, 1, attrs)
}

// RecordHTTPActiveRequest records active HTTP request metrics
func (r *OtelRecorder) RecordHTTPActiveRequest(path, method string, delta float64) {
	r.httpActiveRequests.Add(context.Background(), delta, metric.WithAttributes(
		attribute.String("path", path),
		attribute.String("method", method),
	))
}

// RecordCall records one generateText round trip
func (r *OtelRecorder) RecordCall(startTime time.Time, operation, modelVersion, outcome string) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("model_version", modelVersion),
		attribute.String("outcome", outcome),
	)
	r.callDuration.Record(ctx, time.Since(startTime).Seconds(), attrs)
	r.callsTotal.Add(ctx, 1, attrs)
}

// RecordValidationFailure records a request rejected before I/O
func (r *OtelRecorder) RecordValidationFailure(operation, code string) {
	r.validationFailures.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("code", code),
	))
}

// RecordProbe records a liveness probe
func (r *OtelRecorder) RecordProbe(startTime time.Time, modelVersion string, success bool) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("model_version", modelVersion),
		attribute.String("success", strconv.FormatBool(success)),
	)
	r.probeDuration.Record(ctx, time.Since(startTime).Seconds(), attrs)
	r.probesTotal.Add(ctx, 1, attrs)
}

// RecordError records error metrics
func (r *OtelRecorder) RecordError(errorType, component string) {
	r.errorsTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("error_type", errorType),
		attribute.String("component", component),
	))
}

// InitSystemMetrics publishes the build info gauge
func (r *OtelRecorder) InitSystemMetrics(version, buildTime, goVersion string, startTime time.Time) {
	r.buildInfo.Record(context.Background(), 1, metric.WithAttributes(
		attribute.String("version", version),
		attribute.String("build_time", buildTime),
		attribute.String("go_version", goVersion),
		attribute.Int64("start_time", startTime.Unix()),
	))
}
