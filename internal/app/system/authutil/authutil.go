// internal/app/system/authutil/authutil.go
package authutil

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ErrPasswordTooShort is returned by ValidatePassword for short passwords.
var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

// ValidatePassword checks a candidate password against the rules.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// PasswordRules returns a human-readable description of the password rules.
func PasswordRules() string {
	return fmt.Sprintf("At least %d characters.", MinPasswordLength)
}

// HashPassword validates and bcrypt-hashes a password for storage.
func HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
// An empty hash (Google-only account) never matches.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ErrNotPasswordAccount is returned when a password operation targets an
// account that signs in with Google only.
var ErrNotPasswordAccount = errors.New("account does not use password sign-in")
