package services

import (
	"context"

	"blood-bank-api-server/internal/apperr"
	"blood-bank-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RecipientService struct {
	requests RequestStore
	clock    Clock
}

func NewRecipientService(requests RequestStore, clock Clock) *RecipientService {
	return &RecipientService{requests: requests, clock: clock}
}

type RequestInput struct {
	BloodType string
	Location  string
	Date      string
}

// Submit files a pending blood request for recipient.
func (s *RecipientService) Submit(ctx context.Context, recipient primitive.ObjectID, in RequestInput) (*models.Request, error) {
	if in.BloodType == "" || in.Location == "" || in.Date == "" {
		return nil, apperr.Validation("All fields are required")
	}
	bloodType := models.BloodType(in.BloodType)
	if !bloodType.Valid() {
		return nil, apperr.Validation("Invalid blood type")
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if !notBefore(date, s.clock.today()) {
		return nil, apperr.Validation("Date cannot be in the past")
	}

	now := s.clock.now()
	request := models.Request{
		Recipient: recipient,
		BloodType: bloodType,
		Location:  in.Location,
		Date:      date,
		Status:    models.RequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := models.Validate(request); err != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, "Invalid request", err)
	}

	if err := s.requests.Insert(ctx, &request); err != nil {
		return nil, apperr.Internal("Server error", err)
	}
	return &request, nil
}

// History lists the recipient's requests, most recent first.
func (s *RecipientService) History(ctx context.Context, recipient primitive.ObjectID) ([]models.Request, error) {
	requests, err := s.requests.FindByRecipient(ctx, recipient)
	if err != nil {
		return nil, apperr.Internal("Server error", err)
	}
	return requests, nil
}

// ApprovedGrouped returns the recipient's approved requests grouped by
// blood type.
func (s *RecipientService) ApprovedGrouped(ctx context.Context, recipient primitive.ObjectID) ([]models.ApprovedGroup, error) {
	groups, err := s.requests.ApprovedGrouped(ctx, recipient)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch approved requests", err)
	}
	return groups, nil
}
