// server/internal/models/request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Request is a recipient's ask for one unit of blood. It leaves pending
// exactly once, by admin decision.
type Request struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Recipient primitive.ObjectID `bson:"recipient" json:"recipient" validate:"required"`
	BloodType BloodType          `bson:"bloodType" json:"bloodType" validate:"required,bloodtype"`
	Location  string             `bson:"location" json:"location" validate:"required"`
	Date      time.Time          `bson:"date" json:"date" validate:"required"`
	Status    RequestStatus      `bson:"status" json:"status" validate:"oneof=pending approved rejected"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ApprovedRequest is the projection pushed into each blood type group.
type ApprovedRequest struct {
	Date     time.Time          `bson:"date" json:"date"`
	Location string             `bson:"location" json:"location"`
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
}

// ApprovedGroup collects a recipient's approved requests of one blood type.
type ApprovedGroup struct {
	BloodType BloodType         `bson:"_id" json:"_id"`
	Requests  []ApprovedRequest `bson:"requests" json:"requests"`
}
