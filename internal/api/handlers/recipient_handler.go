// server/internal/api/handlers/recipient_handler.go
package handlers

import (
	"context"
	"net/http"

	"blood-bank-api-server/internal/api/middleware"
	"blood-bank-api-server/internal/api/responses"
	"blood-bank-api-server/internal/models"
	"blood-bank-api-server/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RecipientService interface {
	Submit(ctx context.Context, recipient primitive.ObjectID, in services.RequestInput) (*models.Request, error)
	History(ctx context.Context, recipient primitive.ObjectID) ([]models.Request, error)
	ApprovedGrouped(ctx context.Context, recipient primitive.ObjectID) ([]models.ApprovedGroup, error)
}

type RecipientHandler struct {
	Service RecipientService
}

type BloodRequestPayload struct {
	BloodType string `json:"bloodType"`
	Location  string `json:"location"`
	Date      string `json:"date"`
}

func (h *RecipientHandler) RequestBlood(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var payload BloodRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c, err)
		return
	}

	_, err := h.Service.Submit(c.Request.Context(), user.ID, services.RequestInput{
		BloodType: payload.BloodType,
		Location:  payload.Location,
		Date:      payload.Date,
	})
	if err != nil {
		responses.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Blood request submitted successfully"})
}

func (h *RecipientHandler) MyRequests(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	requests, err := h.Service.History(c.Request.Context(), user.ID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *RecipientHandler) ApprovedRequests(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	groups, err := h.Service.ApprovedGrouped(c.Request.Context(), user.ID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}
