// server/internal/api/handlers/public_handler.go
package handlers

import (
	"context"
	"net/http"

	"blood-bank-api-server/internal/api/responses"
	"blood-bank-api-server/internal/models"

	"github.com/gin-gonic/gin"
)

type PublicService interface {
	Inventory(ctx context.Context) ([]models.Inventory, error)
}

// Pinger checks the database connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PublicHandler struct {
	Service PublicService
	DB      Pinger
}

// GetInventory serves approved, completed stock without authentication.
func (h *PublicHandler) GetInventory(c *gin.Context) {
	inventory, err := h.Service.Inventory(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, inventory)
}

func (h *PublicHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Blood Bank API is running")
}

func (h *PublicHandler) Health(c *gin.Context) {
	if err := h.DB.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
