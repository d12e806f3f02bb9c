package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/pkg/auth"
	"github.com/yigit/headta/internal/pkg/helpers"
)

// ErrAdminSeedIncomplete is returned when the admin seed settings are missing a field
var ErrAdminSeedIncomplete = errors.New("admin seed requires email, password, first and last name")

// UserStore is the storage the seed needs
type UserStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *appModels.User) (int64, error)
}

// Admin describes an administrator account to create
type Admin struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (a Admin) complete() bool {
	return strings.TrimSpace(a.Email) != "" && a.Password != "" &&
		strings.TrimSpace(a.FirstName) != "" && strings.TrimSpace(a.LastName) != ""
}

// CreateAdmin creates an active admin account. Admins created here are invitation tree roots.
// It returns created=false without error when the email is already registered.
func CreateAdmin(ctx context.Context, users UserStore, admin Admin) (id int64, created bool, err error) {
	if !admin.complete() {
		return 0, false, ErrAdminSeedIncomplete
	}

	email := helpers.NormalizeEmail(admin.Email)
	exists, err := users.EmailExists(ctx, email)
	if err != nil {
		return 0, false, fmt.Errorf("check admin email: %w", err)
	}
	if exists {
		return 0, false, nil
	}

	hashed, err := auth.HashPassword(admin.Password)
	if err != nil {
		return 0, false, fmt.Errorf("hash admin password: %w", err)
	}

	id, err = users.CreateUser(ctx, &appModels.User{
		Email:     email,
		Password:  hashed,
		FirstName: strings.TrimSpace(admin.FirstName),
		LastName:  strings.TrimSpace(admin.LastName),
		RoleType:  appModels.RoleAdmin,
		IsActive:  true,
	})
	if err != nil {
		return 0, false, fmt.Errorf("create admin: %w", err)
	}
	return id, true, nil
}

// CreateDefaultData creates the configured default admin if it doesn't exist.
// An empty seed configuration is skipped.
func CreateDefaultData(ctx context.Context, users UserStore, admin Admin, lgr zerolog.Logger) error {
	if admin.Email == "" {
		lgr.Info().Msg("No default admin configured, skipping seed")
		return nil
	}

	lgr.Info().Str("email", admin.Email).Msg("Checking/Creating default admin...")
	id, created, err := CreateAdmin(ctx, users, admin)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin user")
		return err
	}
	if created {
		lgr.Info().Int64("userID", id).Msg("Default admin user created")
	} else {
		lgr.Info().Msg("Default admin user already exists")
	}
	return nil
}
