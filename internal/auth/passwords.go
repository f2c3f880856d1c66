package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tablepulse/tablepulse/internal/model"
)

const errorMessageInvalidCredentials = "auth: invalid credentials"

// ErrInvalidCredentials indicates the email/password pair did not match an account.
var ErrInvalidCredentials = errors.New(errorMessageInvalidCredentials)

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(plainPassword string) (string, error) {
	hashedBytes, hashErr := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if hashErr != nil {
		return "", hashErr
	}
	return string(hashedBytes), nil
}

// CheckPassword reports whether the plaintext password matches the stored hash.
func CheckPassword(hashedPassword string, plainPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword)) == nil
}

// AuthenticateUser looks up an active user by email and verifies the password.
// Unknown email, wrong password and inactive accounts all return
// ErrInvalidCredentials so callers cannot distinguish them.
func AuthenticateUser(database *gorm.DB, email string, password string) (*model.User, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	if normalizedEmail == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user model.User
	if lookupErr := database.First(&user, "email = ?", normalizedEmail).Error; lookupErr != nil {
		if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, lookupErr
	}

	if !user.IsActive || !CheckPassword(user.HashedPassword, password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
