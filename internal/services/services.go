// Package services holds the blood bank use cases. Handlers call them with
// the authenticated user's id; the services talk to the store.
package services

import (
	"context"
	"time"

	"blood-bank-api-server/internal/models"
	"blood-bank-api-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationStore interface {
	Insert(ctx context.Context, donation *models.Donation) error
	InsertMany(ctx context.Context, donations []models.Donation) (int, error)
	FindByDonor(ctx context.Context, donor primitive.ObjectID) ([]models.Donation, error)
	LastCompleted(ctx context.Context, donor primitive.ObjectID) (*models.Donation, error)
	CountCompleted(ctx context.Context, bloodType models.BloodType) (int64, error)
	ConsumeCompleted(ctx context.Context, bloodType models.BloodType) (*models.Donation, error)
	Inventory(ctx context.Context, scope models.InventoryScope) ([]models.Inventory, error)
	DailyCompleted(ctx context.Context, from, to time.Time) ([]models.LabelCount, error)
}

type RequestStore interface {
	Insert(ctx context.Context, request *models.Request) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error)
	Find(ctx context.Context, filter store.RequestFilter) ([]models.Request, error)
	FindByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Request, error)
	ApprovedGrouped(ctx context.Context, recipient primitive.ObjectID) ([]models.ApprovedGroup, error)
	UpdateStatusIfPending(ctx context.Context, id primitive.ObjectID, status models.RequestStatus, now time.Time) (bool, error)
	CountByBloodType(ctx context.Context) ([]models.LabelCount, error)
}

type UserStore interface {
	CountByLocation(ctx context.Context, role models.Role) ([]models.LabelCount, error)
}

// Transactor runs fn atomically when the backing store supports it.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier pushes an event to a connected user.
type Notifier interface {
	Notify(userID string, event string, payload any) error
}

// DecisionObserver records the outcome of an approve/reject attempt.
type DecisionObserver interface {
	ObserveDecision(outcome string)
}

// Clock returns the current time.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// today returns midnight of the clock's current day, in the clock's zone.
func (c Clock) today() time.Time {
	return startOfDay(c.now())
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, string, any) error { return nil }

type noopObserver struct{}

func (noopObserver) ObserveDecision(string) {}
