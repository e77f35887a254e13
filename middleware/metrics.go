package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Laisky/palm-client/common/metrics"
)

// HTTPMetrics records latency, status and in-flight count per route.
// Unmatched paths share one label to keep cardinality bounded.
func HTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		start := time.Now()

		recorder := metrics.GlobalRecorder
		recorder.RecordHTTPActiveRequest(path, method, 1)
		defer recorder.RecordHTTPActiveRequest(path, method, -1)

		c.Next()
		recorder.RecordHTTPRequest(start, path, method, strconv.Itoa(c.Writer.Status()))
	}
}
