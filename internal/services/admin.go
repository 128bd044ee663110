package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"blood-bank-api-server/internal/apperr"
	"blood-bank-api-server/internal/logger"
	"blood-bank-api-server/internal/metrics"
	"blood-bank-api-server/internal/models"
	"blood-bank-api-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// SeedCount is the number of demo donations inserted per seed call.
	SeedCount    = 50
	seedLocation = "Central Hospital"

	// EventRequestStatusChanged is pushed to a recipient after a decision.
	EventRequestStatusChanged = "request_status_changed"

	analyticsDays = 7
)

type AdminService struct {
	donations DonationStore
	requests  RequestStore
	users     UserStore
	tx        Transactor
	notifier  Notifier
	observer  DecisionObserver
	clock     Clock

	rngMu sync.Mutex
	rng   *rand.Rand
}

type AdminDeps struct {
	Donations DonationStore
	Requests  RequestStore
	Users     UserStore
	Tx        Transactor
	Notifier  Notifier
	Observer  DecisionObserver
	Clock     Clock
	// RandomSeed seeds the demo data generator. Zero picks a time-based seed.
	RandomSeed uint64
}

func NewAdminService(deps AdminDeps) (*AdminService, error) {
	if deps.Donations == nil || deps.Requests == nil || deps.Users == nil || deps.Tx == nil {
		return nil, errors.New("admin service requires donation, request and user stores and a transactor")
	}
	seed := deps.RandomSeed
	if seed == 0 {
		seed = uint64(deps.Clock.now().UnixNano())
	}
	s := &AdminService{
		donations: deps.Donations,
		requests:  deps.Requests,
		users:     deps.Users,
		tx:        deps.Tx,
		notifier:  deps.Notifier,
		observer:  deps.Observer,
		clock:     deps.Clock,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	if s.notifier == nil {
		s.notifier = noopNotifier{}
	}
	if s.observer == nil {
		s.observer = noopObserver{}
	}
	return s, nil
}

// ListRequests filters requests by status (pending when empty) and
// optionally by blood type.
func (s *AdminService) ListRequests(ctx context.Context, status, bloodType string) ([]models.Request, error) {
	filter := store.RequestFilter{
		Status:    models.RequestStatus(status),
		BloodType: models.BloodType(bloodType),
	}
	if filter.Status == "" {
		filter.Status = models.RequestPending
	}
	requests, err := s.requests.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("Server Error", err)
	}
	return requests, nil
}

// UpdateStatus approves or rejects a pending request. Approval consumes one
// Completed donation of the request's blood type before the status flips;
// if no unit can be consumed the request stays pending.
func (s *AdminService) UpdateStatus(ctx context.Context, requestID string, status string) (*models.Request, error) {
	next := models.RequestStatus(status)
	if next != models.RequestApproved && next != models.RequestRejected {
		return nil, apperr.Validation("Status must be 'approved' or 'rejected'")
	}
	id, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return nil, apperr.NotFound("Request not found")
	}

	var updated *models.Request
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		request, err := s.requests.FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Request not found")
		}
		if err != nil {
			return err
		}
		if request.Status != models.RequestPending {
			return apperr.InvalidState("Only pending requests can be updated")
		}

		var used *models.Donation
		if next == models.RequestApproved {
			if used, err = s.consumeUnit(ctx, request.BloodType); err != nil {
				return err
			}
		}

		now := s.clock.now()
		ok, err := s.requests.UpdateStatusIfPending(ctx, id, next, now)
		if err == nil && !ok {
			err = apperr.InvalidState("Only pending requests can be updated")
		}
		if err != nil {
			// Without a transaction the delete already happened; put the
			// unit back so a lost race leaves stock untouched.
			if used != nil {
				if rerr := s.donations.Insert(ctx, used); rerr != nil {
					return apperr.Internal(fmt.Sprintf("Error using %s unit.", request.BloodType), errors.Join(err, rerr))
				}
			}
			return err
		}
		request.Status = next
		request.UpdatedAt = now
		updated = request
		return nil
	})
	if err != nil {
		s.observer.ObserveDecision(decisionOutcome(err))
		if apperr.As(err) != nil {
			return nil, err
		}
		return nil, apperr.Internal("Error updating request", err)
	}

	s.observer.ObserveDecision(string(next))
	if err := s.notifier.Notify(updated.Recipient.Hex(), EventRequestStatusChanged, updated); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("request_id", requestID).Msg("notify recipient")
	}
	return updated, nil
}

// consumeUnit removes one Completed donation of bloodType and returns it.
func (s *AdminService) consumeUnit(ctx context.Context, bloodType models.BloodType) (*models.Donation, error) {
	available, err := s.donations.CountCompleted(ctx, bloodType)
	if err != nil {
		return nil, err
	}
	if available < 1 {
		return nil, apperr.InsufficientInventory(fmt.Sprintf("Not enough units of %s available.", bloodType))
	}
	used, err := s.donations.ConsumeCompleted(ctx, bloodType)
	if err != nil {
		return nil, err
	}
	if used == nil {
		return nil, apperr.Internal(fmt.Sprintf("Error using %s unit.", bloodType), nil)
	}
	return used, nil
}

func decisionOutcome(err error) string {
	switch {
	case apperr.Is(err, apperr.CodeInsufficientInventory):
		return metrics.OutcomeInsufficientInventory
	case apperr.Is(err, apperr.CodeInvalidState):
		return metrics.OutcomeInvalidState
	default:
		return metrics.OutcomeError
	}
}

// Inventory counts every donation that is not Cancelled.
func (s *AdminService) Inventory(ctx context.Context) ([]models.Inventory, error) {
	inventory, err := s.donations.Inventory(ctx, models.ScopeAvailable)
	if err != nil {
		return nil, apperr.Internal("Server error", err)
	}
	return inventory, nil
}

// PublicInventory counts Completed donations regardless of admin approval.
func (s *AdminService) PublicInventory(ctx context.Context) ([]models.Inventory, error) {
	inventory, err := s.donations.Inventory(ctx, models.ScopeCompleted)
	if err != nil {
		return nil, apperr.Internal("Public inventory error", err)
	}
	return inventory, nil
}

// SeedDemoData inserts SeedCount Completed donations with blood types drawn
// uniformly at random, owned by the acting admin.
func (s *AdminService) SeedDemoData(ctx context.Context, admin primitive.ObjectID) (int, error) {
	now := s.clock.now()
	donations := make([]models.Donation, 0, SeedCount)

	s.rngMu.Lock()
	for i := 0; i < SeedCount; i++ {
		bloodType := models.BloodTypes[s.rng.IntN(len(models.BloodTypes))]
		donation := models.NewDonation(admin, bloodType, seedLocation, now)
		donation.Status = models.DonationCompleted
		donations = append(donations, donation)
	}
	s.rngMu.Unlock()

	count, err := s.donations.InsertMany(ctx, donations)
	if err != nil {
		return 0, apperr.Internal("Seeding error", err)
	}
	return count, nil
}

// Analytics builds the dashboard charts: Completed donations per day over
// the last seven days, requests per blood type and users per location.
func (s *AdminService) Analytics(ctx context.Context) (*models.Analytics, error) {
	// $dateToString buckets by UTC day, so the window is cut in UTC too.
	today := startOfDay(s.clock.now().UTC())
	from := today.AddDate(0, 0, -(analyticsDays - 1))
	to := today.AddDate(0, 0, 1)

	daily, err := s.donations.DailyCompleted(ctx, from, to)
	if err != nil {
		return nil, apperr.Internal("Analytics server error", err)
	}
	byBloodType, err := s.requests.CountByBloodType(ctx)
	if err != nil {
		return nil, apperr.Internal("Analytics server error", err)
	}
	locations := map[string]int64{}
	for _, role := range []models.Role{models.RoleDonor, models.RoleRecipient} {
		counts, err := s.users.CountByLocation(ctx, role)
		if err != nil {
			return nil, apperr.Internal("Analytics server error", err)
		}
		for _, c := range counts {
			label := c.Label
			if label == "" {
				label = "Unknown"
			}
			locations[label] += c.Count
		}
	}

	return &models.Analytics{
		WeeklyDonations: toSeries(daily),
		TopBloodGroups:  toSeries(byBloodType),
		LocationStats:   mapToSeries(locations),
	}, nil
}

func toSeries(counts []models.LabelCount) models.Series {
	series := models.Series{Labels: []string{}, Data: []int64{}}
	for _, c := range counts {
		series.Labels = append(series.Labels, c.Label)
		series.Data = append(series.Data, c.Count)
	}
	return series
}

func mapToSeries(m map[string]int64) models.Series {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	series := models.Series{Labels: labels, Data: make([]int64, 0, len(labels))}
	for _, label := range labels {
		series.Data = append(series.Data, m[label])
	}
	return series
}

