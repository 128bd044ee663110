// server/internal/database/seeder.go
package database

import (
	"context"
	"strings"
	"time"

	"blood-bank-api-server/config"
	"blood-bank-api-server/internal/auth"
	"blood-bank-api-server/internal/logger"
	"blood-bank-api-server/internal/models"
)

// AdminAccounts is the part of the user repository the seeder needs.
type AdminAccounts interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, user *models.User) error
}

// SeedAdmin creates the bootstrap admin account. It does nothing when no
// credentials are configured or the account already exists, and reports
// whether a user was created.
func SeedAdmin(ctx context.Context, users AdminAccounts, cfg config.SeedConfig, now time.Time) (bool, error) {
	log := logger.FromContext(ctx)

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		log.Debug().Msg("no bootstrap admin configured, seeding skipped")
		return false, nil
	}

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if exists {
		log.Info().Str("email", email).Msg("admin already exists, seeding skipped")
		return false, nil
	}

	hashedPassword, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, err
	}

	admin := &models.User{
		Name:      "Admin",
		Email:     email,
		Password:  hashedPassword,
		Role:      models.RoleAdmin,
		Location:  cfg.AdminLocation,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Insert(ctx, admin); err != nil {
		return false, err
	}

	log.Info().Str("email", email).Msg("admin seeded")
	return true, nil
}
