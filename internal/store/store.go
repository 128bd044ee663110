// server/internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	UsersCollection     = "users"
	DonationsCollection = "donations"
	RequestsCollection  = "requests"
)

// ErrNotFound is returned when a lookup by id matches no document.
var ErrNotFound = errors.New("document not found")

// Store bundles the repositories of one database.
type Store struct {
	DB           *mongo.Database
	Users        *UserRepository
	Donations    *DonationRepository
	Requests     *RequestRepository
	transactions bool
}

// New builds the repositories. With transactions enabled, RunInTransaction
// wraps its callback in a multi-document transaction, which needs a
// replica set.
func New(db *mongo.Database, transactions bool) *Store {
	return &Store{
		DB:           db,
		Users:        &UserRepository{coll: db.Collection(UsersCollection)},
		Donations:    &DonationRepository{coll: db.Collection(DonationsCollection)},
		Requests:     &RequestRepository{coll: db.Collection(RequestsCollection)},
		transactions: transactions,
	}
}

// RunInTransaction calls fn with a context bound to a transaction when
// transactions are enabled, or with ctx unchanged otherwise. An error from
// fn aborts the transaction and is returned as is.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.transactions {
		return fn(ctx)
	}

	session, err := s.DB.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.DB.Client().Ping(ctx, nil)
}
