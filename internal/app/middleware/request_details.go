package middleware

import (
	"time"

	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// AttachRequestDetails tags the request context with a request id and logs one
// line per request once the handler chain has finished.
func AttachRequestDetails() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestTime := time.Now().UTC()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))

		details := models.RequestDetails{
			RequestID:   requestID,
			IP:          c.ClientIP(),
			UserAgent:   c.Request.UserAgent(),
			HTTPMethod:  c.Request.Method,
			Path:        c.Request.URL.Path,
			RequestTime: requestTime.Format(time.RFC3339Nano),
		}

		c.Next()

		responseTime := time.Now().UTC()
		details.Status = c.Writer.Status()
		details.ResponseTime = responseTime.Format(time.RFC3339Nano)
		details.LatencyMs = responseTime.Sub(requestTime).Milliseconds()

		logger.CtxInfo(c.Request.Context(), "Request completed", zap.Any("request", details))
	}
}
