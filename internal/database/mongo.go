// server/internal/database/mongo.go
package database

import (
	"context"
	"errors"
	"fmt"

	"blood-bank-api-server/config"
	"blood-bank-api-server/internal/logger"
	"blood-bank-api-server/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a client for cfg.URI and pings it. Every operation on the
// client is bounded by cfg.Timeout.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		opts.SetTimeout(cfg.Timeout).SetConnectTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// indexes backs the inventory aggregations and the per-user history lists.
// Names are left to the server (e.g. email_1) so databases created by other
// tools resolve to the same index.
var indexes = map[string][]mongo.IndexModel{
	store.DonationsCollection: {
		{Keys: bson.D{{Key: "bloodType", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "donor", Value: 1}, {Key: "date", Value: -1}}},
	},
	store.RequestsCollection: {
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "date", Value: -1}}},
	},
	store.UsersCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
}

// Server codes for an index that exists with other options or another name.
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// EnsureIndexes creates the indexes the repositories rely on. An index that
// already exists in a conflicting form is kept as is and logged.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	log := logger.FromContext(ctx)
	for coll, models := range indexes {
		for _, model := range models {
			_, err := db.Collection(coll).Indexes().CreateOne(ctx, model)
			if isIndexConflict(err) {
				log.Warn().Err(err).Str("collection", coll).Msg("keeping existing index")
				continue
			}
			if err != nil {
				return fmt.Errorf("create %s indexes: %w", coll, err)
			}
		}
	}
	return nil
}

func isIndexConflict(err error) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.HasErrorCode(codeIndexOptionsConflict) || se.HasErrorCode(codeIndexKeySpecsConflict)
}
