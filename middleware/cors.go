package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/palm-client/common/config"
	"github.com/Laisky/palm-client/common/helper"
)

// CORS allows browser callers from config.CORSAllowedOrigins.
func CORS() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(config.CORSAllowedOrigins) == 0 || slices.Contains(config.CORSAllowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = config.CORSAllowedOrigins
	}
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", helper.RequestIdKey, "traceparent"}
	cfg.ExposeHeaders = []string{helper.RequestIdKey}
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}
