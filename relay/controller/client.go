package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Laisky/palm-client/common"
	"github.com/Laisky/palm-client/common/client"
	"github.com/Laisky/palm-client/common/config"
	"github.com/Laisky/palm-client/common/helper"
	"github.com/Laisky/palm-client/common/logger"
	"github.com/Laisky/palm-client/common/metrics"
	"github.com/Laisky/palm-client/common/telemetry"
	"github.com/Laisky/palm-client/common/tracing"
	"github.com/Laisky/palm-client/relay/adaptor/palm"
	"github.com/Laisky/palm-client/relay/connection"
	"github.com/Laisky/palm-client/relay/model"
	"github.com/Laisky/palm-client/relay/operation"
)

// outcomeTransportError labels calls that never produced a classified response.
const outcomeTransportError = "transport_error"

// Options tunes a single call. The zero value uses the default generation
// config and the default safety thresholds.
type Options struct {
	Config          *model.GenerationConfig
	SafetyOverrides map[string]string
}

func (o Options) generationConfig() model.GenerationConfig {
	if o.Config == nil {
		return model.DefaultGenerationConfig()
	}
	return *o.Config
}

// Client runs text operations against one connection.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	conn        connection.Connection
	adaptor     *palm.Adaptor
	httpClient  *http.Client
	probeClient *http.Client
	prober      *palm.Prober
	logger      glog.Logger
	recorder    metrics.MetricsRecorder
}

// ClientOption customises New.
type ClientOption func(*Client)

// WithHTTPClient replaces the outbound client for both calls and probes.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
		c.probeClient = hc
	}
}

// WithLogger sets the fallback logger. A logger attached to a gin request
// context still takes precedence.
func WithLogger(lg glog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = lg
	}
}

// WithRecorder pins the metrics recorder instead of following metrics.GlobalRecorder.
func WithRecorder(r metrics.MetricsRecorder) ClientOption {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithAdaptor overrides the API hosts.
func WithAdaptor(a *palm.Adaptor) ClientOption {
	return func(c *Client) {
		c.adaptor = a
	}
}

// New returns a Client for conn. conn must come from connection.Build.
func New(conn connection.Connection, opts ...ClientOption) (*Client, error) {
	if conn.APIKey() == "" {
		return nil, errors.Wrap(model.ErrInvalidInput, "connection is not built")
	}

	c := &Client{
		conn:        conn,
		adaptor:     palm.NewAdaptor(),
		httpClient:  client.HTTPClient,
		probeClient: client.ImpatientHTTPClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.prober = palm.NewProber(c.adaptor, c.probeClient, config.ProbeCacheTTL)
	return c, nil
}

// Connection returns the connection the client was built with.
func (c *Client) Connection() connection.Connection {
	return c.conn
}

// Generate sends prompt verbatim.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (model.Outcome, error) {
	return c.Do(ctx, &operation.Generate{Prompt: prompt}, opts)
}

// FixGrammar asks for a grammar-corrected version of text.
func (c *Client) FixGrammar(ctx context.Context, text string, opts Options) (model.Outcome, error) {
	return c.Do(ctx, &operation.FixGrammar{Text: text}, opts)
}

// GetReference asks for formatted citations on a topic.
func (c *Client) GetReference(ctx context.Context, params operation.GetReference, opts Options) (model.Outcome, error) {
	return c.Do(ctx, &params, opts)
}

// ExplainCode asks for an explanation of a code snippet.
func (c *Client) ExplainCode(ctx context.Context, params operation.ExplainCode, opts Options) (model.Outcome, error) {
	return c.Do(ctx, &params, opts)
}

// OptimizeCode asks for an optimised version of a code snippet.
func (c *Client) OptimizeCode(ctx context.Context, params operation.OptimizeCode, opts Options) (model.Outcome, error) {
	return c.Do(ctx, &params, opts)
}

// Do validates and sends op. Validation errors are returned before any
// network I/O. A classified response, including an API error payload or a
// safety block, is returned as an Outcome with a nil error; the error is only
// set when no response could be classified.
func (c *Client) Do(ctx context.Context, op operation.Operation, opts Options) (model.Outcome, error) {
	lg := c.loggerFor(ctx)
	opName := "unknown"
	if op != nil {
		opName = string(op.Kind())
	}

	req, err := c.adaptor.ConvertRequest(op, c.conn, opts.generationConfig(), opts.SafetyOverrides)
	if err != nil {
		c.metrics().RecordValidationFailure(opName, model.ErrorCode(err))
		lg.Debug("request rejected", zap.String("operation", opName), zap.Error(err))
		return model.Outcome{}, err
	}

	ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, "palm."+opName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("palm.operation", opName),
			attribute.String("palm.model_version", c.conn.ModelVersion()),
			attribute.String("palm.model_type", c.conn.ModelType()),
			attribute.Bool("palm.proxy", c.conn.UseProxy()),
		))
	defer span.End()

	lg = lg.With(tracing.WithTraceIDFromContext(ctx,
		zap.String("operation", opName),
		zap.String("model_version", c.conn.ModelVersion()),
	)...)
	if config.DebugEnabled {
		c.debugLogRequest(lg, req)
	}

	start := time.Now()
	resp, err := c.adaptor.DoRequest(ctx, c.httpClient, req)
	if err != nil {
		return c.transportFailure(lg, span, start, opName, err)
	}
	statusCode := resp.StatusCode
	outcome, body, err := palm.DoResponse(resp)
	if config.DebugEnabled {
		debugLogResponse(lg, statusCode, body)
	}
	if err != nil {
		return c.transportFailure(lg, span, start, opName, err)
	}

	span.SetAttributes(
		attribute.Int("http.response.status_code", statusCode),
		attribute.String("palm.outcome", outcome.Kind.String()),
	)
	c.metrics().RecordCall(start, opName, c.conn.ModelVersion(), outcome.Kind.String())
	lg.Info("palm call finished",
		zap.String("outcome", outcome.Kind.String()),
		zap.Int("status_code", statusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return outcome, nil
}

// Ping checks that the key and model are accepted, within client.ImpatientTimeout.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, client.ImpatientTimeout)
	defer cancel()

	ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, "palm.probe",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("palm.model_version", c.conn.ModelVersion())))
	defer span.End()

	start := time.Now()
	err := c.prober.Probe(ctx, c.conn)
	c.metrics().RecordProbe(start, c.conn.ModelVersion(), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "probe failed")
		c.loggerFor(ctx).Warn("palm probe failed",
			zap.String("connection", c.conn.String()), zap.Error(err))
		return errors.Wrapf(err, "probe %s/%s", c.conn.ModelVersion(), c.conn.ModelType())
	}
	return nil
}

func (c *Client) transportFailure(lg glog.Logger, span trace.Span, start time.Time, opName string, err error) (model.Outcome, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "transport failure")
	c.metrics().RecordCall(start, opName, c.conn.ModelVersion(), outcomeTransportError)
	c.metrics().RecordError(outcomeTransportError, "relay/controller")
	lg.Error("palm call failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
	return model.Outcome{}, errors.Wrapf(err, "%s via %s", opName, c.conn.String())
}

func (c *Client) metrics() metrics.MetricsRecorder {
	if c.recorder != nil {
		return c.recorder
	}
	return metrics.GlobalRecorder
}

// loggerFor prefers the request-scoped logger of an HTTP facade call.
func (c *Client) loggerFor(ctx context.Context) glog.Logger {
	if ginCtx, ok := gmw.GetGinCtxFromStdCtx(ctx); ok {
		return gmw.GetLogger(ginCtx)
	}
	if c.logger != nil {
		return c.logger
	}
	return logger.Logger
}

func (c *Client) debugLogRequest(lg glog.Logger, req *palm.Request) {
	data, err := json.Marshal(req.Payload)
	if err != nil {
		lg.Debug("marshal payload for debug log", zap.Error(err))
		return
	}
	preview, truncated := common.SanitizePayloadForLogging(data, common.DefaultLogBodyLimit)
	lg.Debug("palm outbound request",
		zap.String("url", helper.RedactURLKey(req.URL)),
		zap.Int("body_bytes", len(data)),
		zap.Bool("body_truncated", truncated),
		zap.ByteString("body", preview),
	)
}

func debugLogResponse(lg glog.Logger, statusCode int, body []byte) {
	preview, truncated := common.SanitizePayloadForLogging(body, common.DefaultLogBodyLimit)
	lg.Debug("palm inbound response",
		zap.Int("status_code", statusCode),
		zap.Int("body_bytes", len(body)),
		zap.Bool("body_truncated", truncated),
		zap.ByteString("body", preview),
	)
}
