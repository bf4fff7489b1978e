package crypto

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type HashCost = int

const (
	// DefaultHashCost represents the default
	// hashing cost for any hashing algorithm.
	DefaultHashCost HashCost = iota

	// QuickHashCost represents the quickest
	// hashing cost for any hashing algorithm,
	// useful for tests only.
	QuickHashCost HashCost = iota

	// MaxPasswordLength designates the maximum passwords length in
	// characters. Bcrypt truncates past 72 bytes, so reject early.
	MaxPasswordLength = 72
)

// PasswordHashCost is the current pasword hashing cost
// for all new hashes generated with
// GenerateHashFromPassword.
var PasswordHashCost = DefaultHashCost

// CompareHashAndPassword compares the hash and
// password, returns nil if equal otherwise an error.
func CompareHashAndPassword(ctx context.Context, hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateFromPassword generates a password hash from a
// password, using PasswordHashCost.
func GenerateFromPassword(ctx context.Context, password string) (string, error) {
	var hashCost int

	if len(password) > MaxPasswordLength {
		return "", fmt.Errorf("password cannot be longer than %d characters", MaxPasswordLength)
	}

	switch PasswordHashCost {
	case QuickHashCost:
		hashCost = bcrypt.MinCost

	default:
		hashCost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
