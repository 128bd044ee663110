// server/internal/store/users.go
package store

import (
	"context"
	"errors"

	"blood-bank-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	coll *mongo.Collection
}

// FindByID loads a user without the password field.
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	opts := options.FindOne().SetProjection(bson.M{"password": 0})

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

// CountByLocation counts users of a role per location. Users without a
// location are grouped under an empty label.
func (r *UserRepository) CountByLocation(ctx context.Context, role models.Role) ([]models.LabelCount, error) {
	return aggregateCounts(ctx, r.coll, countByFieldPipeline(bson.M{"role": role}, "location"))
}

func aggregateCounts(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]models.LabelCount, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    interface{} `bson:"_id"`
		Count int64       `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make([]models.LabelCount, 0, len(rows))
	for _, row := range rows {
		label, _ := row.ID.(string)
		counts = append(counts, models.LabelCount{Label: label, Count: row.Count})
	}
	return counts, nil
}
