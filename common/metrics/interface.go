// Package metrics defines the recorder interface shared by the metrics backends.
package metrics

import (
	"time"
)

// MetricsRecorder defines the interface for recording metrics
type MetricsRecorder interface {
	// HTTP facade metrics
	RecordHTTPRequest(startTime time.Time, path, method, statusCode string)
	RecordHTTPActiveRequest(path, method string, delta float64)

	// RecordCall records one generateText round trip. outcome is the
	// OutcomeKind name, or "transport_error" when no response was classified.
	RecordCall(startTime time.Time, operation, modelVersion, outcome string)
	// RecordValidationFailure records a request rejected before any I/O.
	RecordValidationFailure(operation, code string)
	RecordProbe(startTime time.Time, modelVersion string, success bool)

	// Error metrics
	RecordError(errorType, component string)

	// System metrics
	InitSystemMetrics(version, buildTime, goVersion string, startTime time.Time)
}

// GlobalRecorder holds the active metrics recorder implementation.
var GlobalRecorder MetricsRecorder = &NoOpRecorder{}

// NoOpRecorder is a no-operation implementation for when metrics are disabled
type NoOpRecorder struct{}

func (n *NoOpRecorder) RecordHTTPRequest(startTime time.Time, path, method, statusCode string) {}
func (n *NoOpRecorder) RecordHTTPActiveRequest(path, method string, delta float64) {}
func (n *NoOpRecorder) RecordCall(startTime time.Time, operation, modelVersion, outcome string) {}
func (n *NoOpRecorder) RecordValidationFailure(operation, code string) {}
func (n *NoOpRecorder) RecordProbe(startTime time.Time, modelVersion string, success bool) {}
func (n *NoOpRecorder) RecordError(errorType, component string) {}
func (n *NoOpRecorder) InitSystemMetrics(version, buildTime, goVersion string, startTime time.Time) {
}

// MultiRecorder fans every call out to several recorders.
type MultiRecorder struct {
	Recorders []MetricsRecorder
}

// RecordHTTPRequest implements MetricsRecorder.RecordHTTPRequest
func (m *MultiRecorder) RecordHTTPRequest(startTime time.Time, path, method, statusCode string) {
	for _, r := range m.Recorders {
		r.RecordHTTPRequest(startTime, path, method, statusCode)
	}
}

// RecordHTTPActiveRequest implements MetricsRecorder.RecordHTTPActiveRequest
func (m *MultiRecorder) RecordHTTPActiveRequest(path, method string, delta float64) {
	for _, r := range m.Recorders {
		r.RecordHTTPActiveRequest(path, method, delta)
	}
}

// RecordCall implements MetricsRecorder.RecordCall
func (m *MultiRecorder) RecordCall(startTime time.Time, operation, modelVersion, outcome string) {
	for _, r := range m.Recorders {
		r.RecordCall(startTime, operation, modelVersion, outcome)
	}
}

// RecordValidationFailure implements MetricsRecorder.RecordValidationFailure
func (m *MultiRecorder) RecordValidationFailure(operation, code string) {
	for _, r := range m.Recorders {
		r.RecordValidationFailure(operation, code)
	}
}

// RecordProbe implements MetricsRecorder.RecordProbe
func (m *MultiRecorder) RecordProbe(startTime time.Time, modelVersion string, success bool) {
	for _, r := range m.Recorders {
		r.RecordProbe(startTime, modelVersion, success)
	}
}

// RecordError implements MetricsRecorder.RecordError
func (m *MultiRecorder) RecordError(errorType, component string) {
	for _, r := range m.Recorders {
		r.RecordError(errorType, component)
	}
}

// InitSystemMetrics implements MetricsRecorder.InitSystemMetrics
func (m *MultiRecorder) InitSystemMetrics(version, buildTime, goVersion string, startTime time.Time) {
	for _, r := range m.Recorders {
		r.InitSystemMetrics(version, buildTime, goVersion, startTime)
	}
}
