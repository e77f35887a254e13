package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Laisky/palm-client/common/config"
	"github.com/Laisky/palm-client/common/helper"
	"github.com/Laisky/palm-client/common/logger"
	"github.com/Laisky/palm-client/relay/model"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(otelgin.Middleware("palm-client-test"))
	engine.Use(gmw.NewLoggerMiddleware(
		gmw.WithLevel(glog.LevelDebug.String()),
		gmw.WithLogger(logger.Logger.Named("gin-test")),
	))
	engine.Use(RequestId())
	return engine
}

func TestRequestIdUniqueAcrossSharedTraceparent(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	engine := newEngine()
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(helper.RequestIdKey)) })

	const traceparent = "00-0123456789abcdef0123456789abcdef-0123456789abcdef-01"
	seen := map[string]bool{}
	for range 2 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("traceparent", traceparent)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		id := w.Header().Get(helper.RequestIdKey)
		require.NotEmpty(t, id)
		require.Equal(t, id, w.Body.String())
		seen[id] = true
	}
	require.Len(t, seen, 2)
}

func TestRequestIdReusesInboundHeader(t *testing.T) {
	engine := newEngine()
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(helper.RequestIdKey, "caller-id-1")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, "caller-id-1", w.Header().Get(helper.RequestIdKey))
}

func TestAbortWithError(t *testing.T) {
	engine := newEngine()
	engine.GET("/validation", func(c *gin.Context) {
		AbortWithError(c, http.StatusBadRequest, errors.Wrap(model.ErrOutOfRange, "topK=0"))
	})
	engine.GET("/other", func(c *gin.Context) {
		AbortWithError(c, http.StatusBadGateway, errors.New("connection refused"))
	})

	var body struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/validation", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "out_of_range", body.Error.Type)
	require.Contains(t, body.Error.Message, "topK=0")
	require.Contains(t, body.Error.Message, "request id: "+w.Header().Get(helper.RequestIdKey))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/other", nil))
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, ErrorTypeClient, body.Error.Type)
}

func TestShouldLogAsWarning(t *testing.T) {
	require.True(t, shouldLogAsWarning(http.StatusBadRequest))
	require.False(t, shouldLogAsWarning(http.StatusBadGateway))
}

func TestCORS(t *testing.T) {
	prev := config.CORSAllowedOrigins
	config.CORSAllowedOrigins = []string{"https://app.example.com"}
	t.Cleanup(func() { config.CORSAllowedOrigins = prev })

	engine := newEngine()
	engine.Use(CORS())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
