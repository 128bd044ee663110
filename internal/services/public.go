package services

import (
	"context"

	"blood-bank-api-server/internal/apperr"
	"blood-bank-api-server/internal/models"
)

type PublicService struct {
	donations DonationStore
}

func NewPublicService(donations DonationStore) *PublicService {
	return &PublicService{donations: donations}
}

// Inventory counts Completed donations an admin has approved.
func (s *PublicService) Inventory(ctx context.Context) ([]models.Inventory, error) {
	inventory, err := s.donations.Inventory(ctx, models.ScopeApproved)
	if err != nil {
		return nil, apperr.Internal("Server error", err)
	}
	return inventory, nil
}
