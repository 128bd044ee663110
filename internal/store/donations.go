// server/internal/store/donations.go
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

type DonationRepository struct {
	coll *mongo.Collection
}

func (r *DonationRepository) Insert(ctx context.Context, donation *models.Donation) error {
	result, err := r.coll.InsertOne(ctx, donation)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		donation.ID = oid
	}
	return nil
}

func (r *DonationRepository) InsertMany(ctx context.Context, donations []models.Donation) (int, error) {
	if len(donations) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(donations))
	for i := range donations {
		docs[i] = donations[i]
	}
	result, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(result.InsertedIDs), nil
}

// FindByDonor returns a donor's donations, most recent date first.
func (r *DonationRepository) FindByDonor(ctx context.Context, donor primitive.ObjectID) ([]models.Donation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"donor": donor}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	donations := []models.Donation{}
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

// LastCompleted returns the donor's latest Completed donation, or nil.
func (r *DonationRepository) LastCompleted(ctx context.Context, donor primitive.ObjectID) (*models.Donation, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})
	filter := bson.M{"donor": donor, "status": models.DonationCompleted}

	var donation models.Donation
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&donation); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &donation, nil
}

func (r *DonationRepository) CountCompleted(ctx context.Context, bloodType models.BloodType) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"bloodType": bloodType, "status": models.DonationCompleted})
}

// ConsumeCompleted deletes one Completed donation of the blood type and
// returns it, or nil when none is left.
func (r *DonationRepository) ConsumeCompleted(ctx context.Context, bloodType models.BloodType) (*models.Donation, error) {
	filter := bson.M{"bloodType": bloodType, "status": models.DonationCompleted}

	var donation models.Donation
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&donation); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &donation, nil
}

func (r *DonationRepository) Inventory(ctx context.Context, scope models.InventoryScope) ([]models.Inventory, error) {
	cursor, err := r.coll.Aggregate(ctx, inventoryPipeline(scope))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	inventory := []models.Inventory{}
	if err := cursor.All(ctx, &inventory); err != nil {
		return nil, err
	}
	return inventory, nil
}

// DailyCompleted counts Completed donations per UTC day in [from, to).
func (r *DonationRepository) DailyCompleted(ctx context.Context, from, to time.Time) ([]models.LabelCount, error) {
	return aggregateCounts(ctx, r.coll, dailyCompletedPipeline(from, to))
}
