package middleware

import (
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Laisky/palm-client/common/helper"
	"github.com/Laisky/palm-client/common/tracing"
)

// maxInboundRequestIdLen bounds a caller supplied request id.
const maxInboundRequestIdLen = 128

// RequestId assigns every request an id, reusing a well-formed inbound
// X-Palm-Request-Id header. The id is echoed in the response header and
// attached to the request logger together with the trace id.
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(helper.RequestIdKey)
		if id == "" || len(id) > maxInboundRequestIdLen {
			id = uuid.NewString()
		}
		c.Set(helper.RequestIdKey, id)
		c.Header(helper.RequestIdKey, id)

		fields := []zap.Field{zap.String("request_id", id)}
		if traceID := tracing.GetTraceIDFromContext(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		gmw.SetLogger(c, gmw.GetLogger(c).With(fields...))
		c.Next()
	}
}
