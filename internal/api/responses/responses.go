// Package responses renders apperr errors as JSON bodies.
package responses

import (
	"net/http"

	"blood-bank-api-server/internal/apperr"
	"blood-bank-api-server/internal/logger"

	"github.com/gin-gonic/gin"
)

// Error renders err as {message, error?}. The cause is only exposed for
// internal errors; untyped errors become 500 "Server error".
func Error(c *gin.Context, err error) {
	status, body := render(c, err)
	c.JSON(status, body)
}

// Abort renders err like Error and stops the handler chain.
func Abort(c *gin.Context, err error) {
	status, body := render(c, err)
	c.AbortWithStatusJSON(status, body)
}

func render(c *gin.Context, err error) (int, gin.H) {
	log := logger.FromContext(c.Request.Context())

	typed := apperr.As(err)
	if typed == nil {
		log.Error().Err(err).Msg("unhandled error")
		return http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()}
	}

	status := typed.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg(typed.Message())
		body := gin.H{"message": typed.Message()}
		if cause := typed.Unwrap(); cause != nil {
			body["error"] = cause.Error()
		}
		return status, body
	}

	log.Warn().Err(typed.Unwrap()).Str("code", string(typed.Code())).Msg(typed.Message())
	return status, gin.H{"message": typed.Message()}
}
