// server/internal/api/handlers/response.go
package handlers

import (
	"blood-bank-api-server/internal/api/responses"
	"blood-bank-api-server/internal/apperr"

	"github.com/gin-gonic/gin"
)

func badBody(c *gin.Context, err error) {
	responses.Error(c, apperr.Wrap(apperr.CodeValidation, "Invalid request body", err))
}
