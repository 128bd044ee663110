package middleware

import (
	"time"

	"blood-bank-api-server/internal/logger"
	"blood-bank-api-server/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger attaches a request-scoped logger carrying a request id and
// logs one line per request. It also feeds the HTTP metrics.
func RequestLogger(base zerolog.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		l := base.With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), status, elapsed)

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.FromContext(c.Request.Context()).Error()
		case status >= 400:
			event = logger.FromContext(c.Request.Context()).Warn()
		default:
			event = logger.FromContext(c.Request.Context()).Info()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("elapsed", elapsed).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
