// server/internal/models/donation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationStatus string

const (
	DonationScheduled DonationStatus = "Scheduled"
	DonationCancelled DonationStatus = "Cancelled"
	DonationCompleted DonationStatus = "Completed"
)

// DonorSnapshot is the optional health record captured when a donation is
// scheduled.
type DonorSnapshot struct {
	Age              int        `bson:"age,omitempty" json:"age,omitempty" validate:"omitempty,min=18,max=65"`
	Weight           float64    `bson:"weight,omitempty" json:"weight,omitempty" validate:"omitempty,min=45"`
	LastDonationDate *time.Time `bson:"lastDonationDate,omitempty" json:"lastDonationDate,omitempty"`
	IsHealthy        *bool      `bson:"isHealthy,omitempty" json:"isHealthy,omitempty"`
}

type Donation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Donor         primitive.ObjectID `bson:"donor" json:"donor" validate:"required"`
	BloodType     BloodType          `bson:"bloodType" json:"bloodType" validate:"required,bloodtype"`
	Location      string             `bson:"location" json:"location" validate:"required"`
	Date          time.Time          `bson:"date" json:"date"`
	Status        DonationStatus     `bson:"status" json:"status" validate:"oneof=Scheduled Cancelled Completed"`
	AdminApproved bool               `bson:"adminApproved" json:"adminApproved"`
	DonorSnapshot *DonorSnapshot     `bson:"donorSnapshot,omitempty" json:"donorSnapshot,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewDonation fills the schema defaults: date defaults to now and status to
// Scheduled.
func NewDonation(donor primitive.ObjectID, bloodType BloodType, location string, now time.Time) Donation {
	return Donation{
		Donor:     donor,
		BloodType: bloodType,
		Location:  location,
		Date:      now,
		Status:    DonationScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
