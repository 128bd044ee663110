// server/internal/store/pipelines.go
package store

import (
	"time"

	"blood-bank-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// inventoryMatch returns the donation filter for a stock view.
func inventoryMatch(scope models.InventoryScope) bson.M {
	switch scope {
	case models.ScopeCompleted:
		return bson.M{"status": models.DonationCompleted}
	case models.ScopeApproved:
		return bson.M{"status": models.DonationCompleted, "adminApproved": true}
	default:
		return bson.M{"status": bson.M{"$ne": models.DonationCancelled}}
	}
}

// inventoryPipeline groups matching donations by blood type into
// {bloodType, units} rows.
func inventoryPipeline(scope models.InventoryScope) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: inventoryMatch(scope)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$bloodType"},
			{Key: "units", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "bloodType", Value: "$_id"},
			{Key: "units", Value: 1},
			{Key: "_id", Value: 0},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "bloodType", Value: 1}}}},
	}
}

// dailyCompletedPipeline counts Completed donations per UTC day in [from, to).
// Days without donations produce no row.
func dailyCompletedPipeline(from, to time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status": models.DonationCompleted,
			"date":   bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$date"},
			}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// countByFieldPipeline groups a collection on field, optionally after a
// match stage, sorted by count descending.
func countByFieldPipeline(match bson.M, field string) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	return append(pipeline,
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	)
}

// approvedGroupedPipeline groups a recipient's approved requests by blood
// type, ascending.
func approvedGroupedPipeline(recipient primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"recipient": recipient,
			"status":    models.RequestApproved,
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$bloodType"},
			{Key: "requests", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "date", Value: "$date"},
				{Key: "location", Value: "$location"},
				{Key: "_id", Value: "$_id"},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}
