// server/internal/api/handlers/admin_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"blood-bank-api-server/internal/api/middleware"
	"blood-bank-api-server/internal/api/responses"
	"blood-bank-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminService interface {
	ListRequests(ctx context.Context, status, bloodType string) ([]models.Request, error)
	UpdateStatus(ctx context.Context, requestID string, status string) (*models.Request, error)
	Inventory(ctx context.Context) ([]models.Inventory, error)
	PublicInventory(ctx context.Context) ([]models.Inventory, error)
	SeedDemoData(ctx context.Context, admin primitive.ObjectID) (int, error)
	Analytics(ctx context.Context) (*models.Analytics, error)
}

type AdminHandler struct {
	Service AdminService
}

type UpdateStatusPayload struct {
	Status string `json:"status"`
}

// GetRequests lists requests, pending ones unless ?status= says otherwise.
func (h *AdminHandler) GetRequests(c *gin.Context) {
	requests, err := h.Service.ListRequests(c.Request.Context(), c.Query("status"), c.Query("bloodType"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// UpdateRequestStatus approves or rejects a pending request. A missing or
// unreadable body is treated as a missing status.
func (h *AdminHandler) UpdateRequestStatus(c *gin.Context) {
	var payload UpdateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		payload = UpdateStatusPayload{}
	}

	request, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		responses.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Request %s successfully", request.Status)})
}

func (h *AdminHandler) GetInventory(c *gin.Context) {
	inventory, err := h.Service.Inventory(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, inventory)
}

func (h *AdminHandler) GetPublicInventory(c *gin.Context) {
	inventory, err := h.Service.PublicInventory(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, inventory)
}

// Seed inserts demo donations owned by the calling admin.
func (h *AdminHandler) Seed(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	count, err := h.Service.SeedDemoData(c.Request.Context(), user.ID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d dummy donations inserted successfully.", count),
		"count":   count,
	})
}

func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.Service.Analytics(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
