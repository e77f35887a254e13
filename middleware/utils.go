package middleware

import (
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/palm-client/common/helper"
	"github.com/Laisky/palm-client/relay/model"
)

// ErrorTypeClient is reported for errors outside the relay/model taxonomy.
const ErrorTypeClient = "palm_client_error"

// AbortWithError aborts the request with an error message
func AbortWithError(c *gin.Context, statusCode int, err error) {
	logger := gmw.GetLogger(c)
	if shouldLogAsWarning(statusCode) {
		logger.Warn("server abort",
			zap.Int("status_code", statusCode),
			zap.Error(err))
	} else {
		logger.Error("server abort",
			zap.Int("status_code", statusCode),
			zap.Error(err))
	}

	errType := model.ErrorCode(err)
	if errType == "" {
		errType = ErrorTypeClient
	}
	c.JSON(statusCode, gin.H{
		"error": gin.H{
			"message": helper.MessageWithRequestId(err.Error(), c.GetString(helper.RequestIdKey)),
			"type":    errType,
		},
	})
	c.Abort()
}

// shouldLogAsWarning reports whether a status is caused by the client.
func shouldLogAsWarning(statusCode int) bool {
	return statusCode >= 400 && statusCode < 500
}
