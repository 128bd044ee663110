package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"blood-bank-api-server/internal/models"
	"blood-bank-api-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory stand-in for the mongo repositories.
type memStore struct {
	mu        sync.Mutex
	donations []models.Donation
	requests  []models.Request
	users     []models.User

	failWith      error
	consumeMisses bool
	txCalls       int

	// lostRace makes UpdateStatusIfPending behave as if another admin
	// decided the request after it was read.
	lostRace  bool
	flipErr   error
	insertErr error
}

func newMemStore() *memStore { return &memStore{} }

func (m *memStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.txCalls++
	m.mu.Unlock()
	return fn(ctx)
}

// donation store

func (m *memStore) Insert(ctx context.Context, d *models.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if m.insertErr != nil {
		return m.insertErr
	}
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	m.donations = append(m.donations, *d)
	return nil
}

func (m *memStore) InsertMany(ctx context.Context, ds []models.Donation) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	for _, d := range ds {
		d.ID = primitive.NewObjectID()
		m.donations = append(m.donations, d)
	}
	return len(ds), nil
}

func (m *memStore) FindByDonor(ctx context.Context, donor primitive.ObjectID) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []models.Donation{}
	for _, d := range m.donations {
		if d.Donor == donor {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memStore) LastCompleted(ctx context.Context, donor primitive.ObjectID) (*models.Donation, error) {
	all, err := m.FindByDonor(ctx, donor)
	if err != nil {
		return nil, err
	}
	for _, d := range all {
		if d.Status == models.DonationCompleted {
			return &d, nil
		}
	}
	return nil, nil
}

func (m *memStore) CountCompleted(ctx context.Context, bt models.BloodType) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, d := range m.donations {
		if d.BloodType == bt && d.Status == models.DonationCompleted {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ConsumeCompleted(ctx context.Context, bt models.BloodType) (*models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.consumeMisses {
		return nil, nil
	}
	for i, d := range m.donations {
		if d.BloodType == bt && d.Status == models.DonationCompleted {
			m.donations = append(m.donations[:i], m.donations[i+1:]...)
			return &d, nil
		}
	}
	return nil, nil
}

func (m *memStore) Inventory(ctx context.Context, scope models.InventoryScope) ([]models.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	counts := map[models.BloodType]int64{}
	for _, d := range m.donations {
		switch scope {
		case models.ScopeAvailable:
			if d.Status == models.DonationCancelled {
				continue
			}
		case models.ScopeCompleted:
			if d.Status != models.DonationCompleted {
				continue
			}
		case models.ScopeApproved:
			if d.Status != models.DonationCompleted || !d.AdminApproved {
				continue
			}
		}
		counts[d.BloodType]++
	}
	out := []models.Inventory{}
	for bt, n := range counts {
		out = append(out, models.Inventory{BloodType: bt, Units: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BloodType < out[j].BloodType })
	return out, nil
}

func (m *memStore) DailyCompleted(ctx context.Context, from, to time.Time) ([]models.LabelCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int64{}
	for _, d := range m.donations {
		if d.Status != models.DonationCompleted || d.Date.Before(from) || !d.Date.Before(to) {
			continue
		}
		counts[d.Date.UTC().Format("2006-01-02")]++
	}
	return sortedCounts(counts, func(a, b models.LabelCount) bool { return a.Label < b.Label }), nil
}

// request store, reached through requestView to avoid the Insert clash

type requestView struct{ *memStore }

func (v requestView) Insert(ctx context.Context, r *models.Request) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.failWith != nil {
		return v.failWith
	}
	r.ID = primitive.NewObjectID()
	v.requests = append(v.requests, *r)
	return nil
}

func (v requestView) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.failWith != nil {
		return nil, v.failWith
	}
	for _, r := range v.requests {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v requestView) Find(ctx context.Context, f store.RequestFilter) ([]models.Request, error) {
	return v.filter(func(r models.Request) bool {
		return (f.Status == "" || r.Status == f.Status) && (f.BloodType == "" || r.BloodType == f.BloodType)
	})
}

func (v requestView) FindByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Request, error) {
	return v.filter(func(r models.Request) bool { return r.Recipient == recipient })
}

func (v requestView) filter(keep func(models.Request) bool) ([]models.Request, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.failWith != nil {
		return nil, v.failWith
	}
	out := []models.Request{}
	for _, r := range v.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (v requestView) ApprovedGrouped(ctx context.Context, recipient primitive.ObjectID) ([]models.ApprovedGroup, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	groups := map[models.BloodType]*models.ApprovedGroup{}
	for _, r := range v.requests {
		if r.Recipient != recipient || r.Status != models.RequestApproved {
			continue
		}
		g, ok := groups[r.BloodType]
		if !ok {
			g = &models.ApprovedGroup{BloodType: r.BloodType}
			groups[r.BloodType] = g
		}
		g.Requests = append(g.Requests, models.ApprovedRequest{Date: r.Date, Location: r.Location, ID: r.ID})
	}
	out := []models.ApprovedGroup{}
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BloodType < out[j].BloodType })
	return out, nil
}

func (v requestView) UpdateStatusIfPending(ctx context.Context, id primitive.ObjectID, status models.RequestStatus, now time.Time) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.flipErr != nil {
		return false, v.flipErr
	}
	for i := range v.requests {
		if v.lostRace && v.requests[i].ID == id {
			v.requests[i].Status = models.RequestRejected
		}
		if v.requests[i].ID == id && v.requests[i].Status == models.RequestPending {
			v.requests[i].Status = status
			v.requests[i].UpdatedAt = now
			return true, nil
		}
	}
	return false, nil
}

func (v requestView) CountByBloodType(ctx context.Context) ([]models.LabelCount, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	counts := map[string]int64{}
	for _, r := range v.requests {
		counts[string(r.BloodType)]++
	}
	return sortedCounts(counts, func(a, b models.LabelCount) bool {
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Label < b.Label
	}), nil
}

// user store

func (m *memStore) CountByLocation(ctx context.Context, role models.Role) ([]models.LabelCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	counts := map[string]int64{}
	for _, u := range m.users {
		if u.Role == role {
			counts[u.Location]++
		}
	}
	return sortedCounts(counts, func(a, b models.LabelCount) bool { return a.Label < b.Label }), nil
}

func sortedCounts(counts map[string]int64, less func(a, b models.LabelCount) bool) []models.LabelCount {
	out := make([]models.LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, models.LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (m *memStore) requestByID(id primitive.ObjectID) models.Request {
	r, _ := requestView{m}.FindByID(context.Background(), id)
	return *r
}

var errBoom = errors.New("boom")

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
	err    error
}

type notification struct {
	userID  string
	event   string
	payload any
}

func (n *recordingNotifier) Notify(userID, event string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{userID: userID, event: event, payload: payload})
	return n.err
}

type recordingObserver struct {
	outcomes []string
}

func (o *recordingObserver) ObserveDecision(outcome string) {
	o.outcomes = append(o.outcomes, outcome)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
