package services

import (
	"context"
	"math"
	"time"

	"blood-bank-api-server/internal/apperr"
	"blood-bank-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// cooldownDays is the wait between two donations.
const cooldownDays = 90

type DonorService struct {
	donations DonationStore
	clock     Clock
}

func NewDonorService(donations DonationStore, clock Clock) *DonorService {
	return &DonorService{donations: donations, clock: clock}
}

type DonateInput struct {
	BloodType string
	Location  string
	Date      string
}

// Eligibility is the donor countdown. NextEligibleDate is nil when the
// donor has never donated.
type Eligibility struct {
	Message          string     `json:"message,omitempty"`
	Eligible         bool       `json:"eligible"`
	NextEligibleDate *time.Time `json:"nextEligibleDate"`
	DaysRemaining    int        `json:"daysRemaining"`
}

// Donate records a donation for donor. Donations entered through the API
// are stored as Completed.
func (s *DonorService) Donate(ctx context.Context, donor primitive.ObjectID, in DonateInput) (*models.Donation, error) {
	if in.BloodType == "" || in.Location == "" || in.Date == "" {
		return nil, apperr.Validation("Blood type, location, and date are required")
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
		return nil, apperr.Validation("Donation date cannot be in the past")
	}

	donation := models.NewDonation(donor, bloodType, in.Location, s.clock.now())
	donation.Date = date
	donation.Status = models.DonationCompleted
	if err := models.Validate(donation); err != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, "Invalid donation", err)
	}

	if err := s.donations.Insert(ctx, &donation); err != nil {
		return nil, apperr.Internal("Server error", err)
	}
	return &donation, nil
}

// History lists the donor's donations, most recent first.
func (s *DonorService) History(ctx context.Context, donor primitive.ObjectID) ([]models.Donation, error) {
	donations, err := s.donations.FindByDonor(ctx, donor)
	if err != nil {
		return nil, apperr.Internal("Server error", err)
	}
	return donations, nil
}

// Eligibility computes when the donor may donate again.
func (s *DonorService) Eligibility(ctx context.Context, donor primitive.ObjectID) (*Eligibility, error) {
	last, err := s.donations.LastCompleted(ctx, donor)
	if err != nil {
		return nil, apperr.Internal("Server error", err)
	}
	if last == nil {
		return &Eligibility{
			Message:       "You have not donated yet.",
			Eligible:      true,
			DaysRemaining: 0,
		}, nil
	}
	e := countdown(last.Date, s.clock.today())
	return &e, nil
}

// countdown applies the cooldown to the last donation date. Days remaining
// round up and never go below zero.
func countdown(lastDonation, today time.Time) Eligibility {
	next := lastDonation.AddDate(0, 0, cooldownDays)
	days := int(math.Ceil(next.Sub(today).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return Eligibility{
		Eligible:         days <= 0,
		NextEligibleDate: &next,
		DaysRemaining:    days,
	}
}
