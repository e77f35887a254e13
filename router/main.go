// Package router assembles the gin engine of the HTTP facade.
package router

import (
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Laisky/palm-client/common/config"
	"github.com/Laisky/palm-client/common/logger"
	"github.com/Laisky/palm-client/controller"
	"github.com/Laisky/palm-client/middleware"
	"github.com/Laisky/palm-client/monitor"
	rcontroller "github.com/Laisky/palm-client/relay/controller"
	"github.com/Laisky/palm-client/relay/operation"
)

// SetRouter builds an engine serving the operations through client.
func SetRouter(client *rcontroller.Client) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware(config.OpenTelemetryServiceName))
	engine.Use(gmw.NewLoggerMiddleware(
		gmw.WithLevel(logger.ParseLevel(config.LogLevel).String()),
		gmw.WithLogger(logger.Logger.Named("http")),
	))
	engine.Use(middleware.RequestId())
	engine.Use(middleware.CORS())
	engine.Use(middleware.HTTPMetrics())

	engine.GET("/healthz", controller.Healthz)
	if h := monitor.Handler(); h != nil {
		engine.GET("/metrics", gin.WrapH(h))
	}

	SetApiRouter(engine, controller.NewHandler(client))
	return engine
}

// SetApiRouter mounts the /v1 routes.
func SetApiRouter(engine *gin.Engine, handler *controller.Handler) {
	api := engine.Group("/v1")
	api.Use(gzip.Gzip(gzip.DefaultCompression))
	{
		api.GET("/ping", handler.Ping)
		for _, kind := range operation.Kinds {
			api.POST("/"+string(kind), handler.Operation(kind))
		}
	}
}
