package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"blood-bank-api-server/config"
	"blood-bank-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccounts struct {
	existing  map[string]bool
	inserted  []*models.User
	existsErr error
}

func (f *fakeAccounts) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return f.existing[email], f.existsErr
}

func (f *fakeAccounts) Insert(_ context.Context, user *models.User) error {
	f.inserted = append(f.inserted, user)
	return nil
}

var seedNow = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func TestSeedAdminCreatesAccount(t *testing.T) {
	accounts := &fakeAccounts{}
	cfg := config.SeedConfig{AdminEmail: " Admin@Example.com ", AdminPassword: "s3cret", AdminLocation: "Central Hospital"}

	created, err := SeedAdmin(context.Background(), accounts, cfg, seedNow)

	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, accounts.inserted, 1)
	admin := accounts.inserted[0]
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "Central Hospital", admin.Location)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("s3cret")))
}

func TestSeedAdminSkips(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		accounts := &fakeAccounts{}
		created, err := SeedAdmin(context.Background(), accounts, config.SeedConfig{}, seedNow)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Empty(t, accounts.inserted)
	})

	t.Run("already exists", func(t *testing.T) {
		accounts := &fakeAccounts{existing: map[string]bool{"admin@example.com": true}}
		cfg := config.SeedConfig{AdminEmail: "admin@example.com", AdminPassword: "pw"}
		created, err := SeedAdmin(context.Background(), accounts, cfg, seedNow)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Empty(t, accounts.inserted)
	})
}

func TestSeedAdminLookupError(t *testing.T) {
	accounts := &fakeAccounts{existsErr: errors.New("boom")}
	cfg := config.SeedConfig{AdminEmail: "admin@example.com", AdminPassword: "pw"}

	_, err := SeedAdmin(context.Background(), accounts, cfg, seedNow)

	assert.Error(t, err)
}

func TestIndexesCoverQueriedCollections(t *testing.T) {
	for _, coll := range []string{"donations", "requests", "users"} {
		assert.NotEmpty(t, indexes[coll], coll)
		for _, model := range indexes[coll] {
			if model.Options != nil {
				assert.Nil(t, model.Options.Name, "%s index should use the server default name", coll)
			}
		}
	}
}

func TestIsIndexConflict(t *testing.T) {
	assert.True(t, isIndexConflict(mongo.CommandError{Code: 85, Name: "IndexOptionsConflict"}))
	assert.True(t, isIndexConflict(fmt.Errorf("wrapped: %w", mongo.CommandError{Code: 86})))
	assert.False(t, isIndexConflict(mongo.CommandError{Code: 11000}))
	assert.False(t, isIndexConflict(errors.New("network down")))
	assert.False(t, isIndexConflict(nil))
}
