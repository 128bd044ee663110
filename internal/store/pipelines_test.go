package store

import (
	"testing"
	"time"

	"blood-bank-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func stage(t *testing.T, d bson.D, key string) interface{} {
	t.Helper()
	require.Len(t, d, 1)
	require.Equal(t, key, d[0].Key)
	return d[0].Value
}

func TestInventoryMatchByScope(t *testing.T) {
	assert.Equal(t,
		bson.M{"status": bson.M{"$ne": models.DonationCancelled}},
		inventoryMatch(models.ScopeAvailable))
	assert.Equal(t,
		bson.M{"status": models.DonationCompleted},
		inventoryMatch(models.ScopeCompleted))
	assert.Equal(t,
		bson.M{"status": models.DonationCompleted, "adminApproved": true},
		inventoryMatch(models.ScopeApproved))
}

func TestInventoryPipelineShape(t *testing.T) {
	p := inventoryPipeline(models.ScopeApproved)
	require.Len(t, p, 4)

	assert.Equal(t, inventoryMatch(models.ScopeApproved), stage(t, p[0], "$match"))
	group := stage(t, p[1], "$group").(bson.D)
	assert.Equal(t, "$bloodType", group[0].Value)
	project := stage(t, p[2], "$project").(bson.D)
	assert.Equal(t, bson.E{Key: "_id", Value: 0}, project[2])
	stage(t, p[3], "$sort")
}

func TestDailyCompletedPipelineWindow(t *testing.T) {
	from := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	p := dailyCompletedPipeline(from, to)
	require.Len(t, p, 3)

	match := stage(t, p[0], "$match").(bson.M)
	assert.Equal(t, models.DonationCompleted, match["status"])
	assert.Equal(t, bson.M{"$gte": from, "$lt": to}, match["date"])

	sort := stage(t, p[2], "$sort").(bson.D)
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, sort)
}

func TestCountByFieldPipeline(t *testing.T) {
	p := countByFieldPipeline(nil, "bloodType")
	require.Len(t, p, 2)
	group := stage(t, p[0], "$group").(bson.D)
	assert.Equal(t, "$bloodType", group[0].Value)
	sort := stage(t, p[1], "$sort").(bson.D)
	assert.Equal(t, bson.E{Key: "count", Value: -1}, sort[0])

	p = countByFieldPipeline(bson.M{"role": models.RoleDonor}, "location")
	require.Len(t, p, 3)
	assert.Equal(t, bson.M{"role": models.RoleDonor}, stage(t, p[0], "$match"))
}

func TestApprovedGroupedPipeline(t *testing.T) {
	recipient := primitive.NewObjectID()
	p := approvedGroupedPipeline(recipient)
	require.Len(t, p, 3)

	match := stage(t, p[0], "$match").(bson.M)
	assert.Equal(t, recipient, match["recipient"])
	assert.Equal(t, models.RequestApproved, match["status"])
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, stage(t, p[2], "$sort"))
}

func TestRequestFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, RequestFilter{}.bson())
	assert.Equal(t,
		bson.M{"status": models.RequestPending, "bloodType": models.BloodTypeONeg},
		RequestFilter{Status: models.RequestPending, BloodType: models.BloodTypeONeg}.bson())
}
