// Package tracing resolves per-request trace identifiers for logs and response headers.
package tracing

import (
	"context"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// otelTraceIDFromContext extracts the OpenTelemetry trace ID from a context when available.
func otelTraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}

	return ""
}

// GetTraceID returns the gin-middlewares trace id of the current request.
func GetTraceID(c *gin.Context) string {
	traceID, err := gmw.TraceID(c)
	if err != nil {
		gmw.GetLogger(c).Debug("no trace id on gin context", zap.Error(err))
		return ""
	}
	return traceID.String()
}

// GetTraceIDFromContext prefers the trace id of an embedded gin.Context and
// falls back to the OpenTelemetry span context. It returns "" when neither exists,
// which is normal for CLI calls.
func GetTraceIDFromContext(ctx context.Context) string {
	if ginCtx, ok := gmw.GetGinCtxFromStdCtx(ctx); ok {
		if traceID := GetTraceID(ginCtx); traceID != "" {
			return traceID
		}
	}
	return otelTraceIDFromContext(ctx)
}

// WithTraceIDFromContext prepends a trace_id field when ctx carries one.
func WithTraceIDFromContext(ctx context.Context, fields ...zap.Field) []zap.Field {
	traceID := GetTraceIDFromContext(ctx)
	if traceID == "" {
		return fields
	}

	return append([]zap.Field{zap.String("trace_id", traceID)}, fields...)
}
