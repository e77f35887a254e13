// Package telemetry installs the global OpenTelemetry tracer and meter providers.
//
// Every exported span and metric carries the PaLM upstream it talks to
// (model version, model type, route and host), so one collector can tell
// apart clients pointed at different models or at the proxy.
package telemetry

import (
	"context"
	stdErrors "errors"
	"net/url"
	"time"

	laerrors "github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Laisky/palm-client/common"
	"github.com/Laisky/palm-client/common/config"
	"github.com/Laisky/palm-client/common/logger"
)

// TracerName is the instrumentation scope of client spans.
const TracerName = "github.com/Laisky/palm-client"

// metricExportInterval is how often palm_* instruments are pushed.
const metricExportInterval = 15 * time.Second

// Resource attribute keys describing the upstream.
const (
	AttrModelVersion = attribute.Key("palm.model_version")
	AttrModelType    = attribute.Key("palm.model_type")
	AttrRoute        = attribute.Key("palm.route")
	AttrUpstreamHost = attribute.Key("palm.upstream_host")
)

// ProviderBundle holds the installed providers so they can be flushed on exit.
type ProviderBundle struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// InitOpenTelemetry installs OTLP/HTTP exporters for traces and metrics when
// OTEL_ENABLED is set. A nil bundle with a nil error means telemetry is off.
func InitOpenTelemetry(ctx context.Context) (*ProviderBundle, error) {
	if !config.OpenTelemetryEnabled {
		return nil, nil
	}
	if config.OpenTelemetryEndpoint == "" {
		return nil, laerrors.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is true")
	}

	res, err := sdkresource.New(ctx,
		sdkresource.WithFromEnv(),
		sdkresource.WithHost(),
		sdkresource.WithTelemetrySDK(),
		sdkresource.WithProcess(),
		sdkresource.WithAttributes(ResourceAttributes()...),
	)
	if err != nil {
		return nil, laerrors.Wrap(err, "build OpenTelemetry resource")
	}

	tracerProvider, err := newTracerProvider(ctx, res)
	if err != nil {
		return nil, err
	}
	meterProvider, err := newMeterProvider(ctx, res)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Logger.Info("OpenTelemetry initialized",
		zap.String("endpoint", config.OpenTelemetryEndpoint),
		zap.Bool("insecure", config.OpenTelemetryInsecure),
		zap.String("service", config.OpenTelemetryServiceName),
		zap.String("model_version", config.ModelVersion),
		zap.String("route", route()),
	)
	return &ProviderBundle{tracerProvider: tracerProvider, meterProvider: meterProvider}, nil
}

// ResourceAttributes describes this client process and the upstream it is
// configured for. The API key is never part of it.
func ResourceAttributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("service.name", config.OpenTelemetryServiceName),
		attribute.String("service.version", common.Version),
		AttrModelVersion.String(config.ModelVersion),
		AttrModelType.String(config.ModelType),
		AttrRoute.String(route()),
	}
	if host := upstreamHost(); host != "" {
		attrs = append(attrs, AttrUpstreamHost.String(host))
	}
	if config.OpenTelemetryEnvironment != "" {
		attrs = append(attrs, attribute.String("deployment.environment", config.OpenTelemetryEnvironment))
	}
	return attrs
}

func route() string {
	if config.UseProxy {
		return "proxy"
	}
	return "direct"
}

// upstreamHost is the host part of the configured base URL, or "" when it
// does not parse.
func upstreamHost() string {
	base := config.BaseURL
	if config.UseProxy {
		base = config.ProxyBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return u.Host
}

func newTracerProvider(ctx context.Context, res *sdkresource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.OpenTelemetryEndpoint),
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
	}
	if config.OpenTelemetryInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, laerrors.Wrap(err, "create OTLP trace exporter")
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

func newMeterProvider(ctx context.Context, res *sdkresource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.OpenTelemetryEndpoint),
		otlpmetrichttp.WithCompression(otlpmetrichttp.GzipCompression),
	}
	if config.OpenTelemetryInsecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, laerrors.Wrap(err, "create OTLP metric exporter")
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(metricExportInterval))
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	), nil
}

// Shutdown flushes pending palm spans and metrics. It is safe on a nil bundle.
func (p *ProviderBundle) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var errs []error
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, laerrors.Wrap(err, "shutdown meter provider"))
		}
	}
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, laerrors.Wrap(err, "shutdown tracer provider"))
		}
	}
	if len(errs) > 0 {
		return laerrors.Wrap(stdErrors.Join(errs...), "shutdown OpenTelemetry providers")
	}
	return nil
}
