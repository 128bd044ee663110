// server/internal/api/handlers/donor_handler.go
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

type DonorService interface {
	Donate(ctx context.Context, donor primitive.ObjectID, in services.DonateInput) (*models.Donation, error)
	History(ctx context.Context, donor primitive.ObjectID) ([]models.Donation, error)
	Eligibility(ctx context.Context, donor primitive.ObjectID) (*services.Eligibility, error)
}

type DonorHandler struct {
	Service DonorService
}

type DonateRequest struct {
	BloodType string `json:"bloodType"`
	Location  string `json:"location"`
	Date      string `json:"date"`
}

// Donate records a donation for the logged-in donor.
func (h *DonorHandler) Donate(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	_, err := h.Service.Donate(c.Request.Context(), user.ID, services.DonateInput{
		BloodType: req.BloodType,
		Location:  req.Location,
		Date:      req.Date,
	})
	if err != nil {
		responses.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Donation recorded successfully"})
}

// History lists the donor's donations, latest first.
func (h *DonorHandler) History(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	donations, err := h.Service.History(c.Request.Context(), user.ID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, donations)
}

// Eligibility returns the 90-day countdown.
func (h *DonorHandler) Eligibility(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	eligibility, err := h.Service.Eligibility(c.Request.Context(), user.ID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, eligibility)
}
