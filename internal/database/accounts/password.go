package accounts

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/avolkau/biblio/internal/database"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

var errInvalidPassword = errors.New("invalid password")

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters",
			database.ErrValidation, MinPasswordLength)
	}
	// bcrypt has a 72-byte limit
	if len(password) > 72 {
		return "", fmt.Errorf("%w: password exceeds maximum length of 72 bytes", database.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password with its stored hash.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return errInvalidPassword
		}
		return err
	}
	return nil
}
