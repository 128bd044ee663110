// server/internal/store/requests.go
package store

import (
	"context"
	"errors"
	"time"

	"blood-bank-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RequestRepository struct {
	coll *mongo.Collection
}

// RequestFilter selects requests for the admin listing. Empty fields do
// not filter.
type RequestFilter struct {
	Status    models.RequestStatus
	BloodType models.BloodType
}

func (f RequestFilter) bson() bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.BloodType != "" {
		filter["bloodType"] = f.BloodType
	}
	return filter
}

func (r *RequestRepository) Insert(ctx context.Context, request *models.Request) error {
	result, err := r.coll.InsertOne(ctx, request)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		request.ID = oid
	}
	return nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	var request models.Request
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&request); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// Find lists requests matching filter, most recent date first.
func (r *RequestRepository) Find(ctx context.Context, filter RequestFilter) ([]models.Request, error) {
	return r.find(ctx, filter.bson())
}

func (r *RequestRepository) FindByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Request, error) {
	return r.find(ctx, bson.M{"recipient": recipient})
}

func (r *RequestRepository) find(ctx context.Context, filter bson.M) ([]models.Request, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []models.Request{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) ApprovedGrouped(ctx context.Context, recipient primitive.ObjectID) ([]models.ApprovedGroup, error) {
	cursor, err := r.coll.Aggregate(ctx, approvedGroupedPipeline(recipient))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	groups := []models.ApprovedGroup{}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// UpdateStatusIfPending moves a pending request to status. It reports
// false when the request is no longer pending.
func (r *RequestRepository) UpdateStatusIfPending(ctx context.Context, id primitive.ObjectID, status models.RequestStatus, now time.Time) (bool, error) {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"$set": bson.M{"status": status, "updatedAt": now}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

// CountByBloodType counts all requests per blood type, highest first.
func (r *RequestRepository) CountByBloodType(ctx context.Context) ([]models.LabelCount, error) {
	return aggregateCounts(ctx, r.coll, countByFieldPipeline(nil, "bloodType"))
}
