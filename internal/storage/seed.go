package storage

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tablepulse/tablepulse/internal/auth"
	"github.com/tablepulse/tablepulse/internal/model"
)

const errorMessageMissingSeedCredentials = "storage: missing seed admin credentials"

// ErrMissingSeedCredentials indicates seed admin email or password was blank.
var ErrMissingSeedCredentials = errors.New(errorMessageMissingSeedCredentials)

// SeedAdmin ensures an active admin account exists for the given credentials.
// It is idempotent: an existing account with the same email is left untouched.
func SeedAdmin(database *gorm.DB, adminEmail string, adminPassword string) error {
	normalizedEmail := strings.ToLower(strings.TrimSpace(adminEmail))
	if normalizedEmail == "" || adminPassword == "" {
		return ErrMissingSeedCredentials
	}

	var existingCount int64
	if countErr := database.Model(&model.User{}).Where("email = ?", normalizedEmail).Count(&existingCount).Error; countErr != nil {
		return countErr
	}
	if existingCount > 0 {
		return nil
	}

	hashedPassword, hashErr := auth.HashPassword(adminPassword)
	if hashErr != nil {
		return hashErr
	}

	adminUser := model.User{
		Email:          normalizedEmail,
		HashedPassword: hashedPassword,
		Role:           model.RoleAdmin,
		IsActive:       true,
	}
	return database.Create(&adminUser).Error
}
