package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost bounds brute-force guessing while keeping interactive
// login latency in the tens of milliseconds.
const DefaultBcryptCost = 10

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrPasswordTooLong = errors.New("password exceeds maximum length of 72 bytes")
)

// HashPassword creates a bcrypt hash of the password. The salt is generated
// per call and embedded in the encoded hash, so hashing the same password
// twice yields distinct outputs.
func HashPassword(password string, cost int) (string, error) {
	// bcrypt silently operates on at most 72 bytes; reject instead
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	if cost == 0 {
		cost = DefaultBcryptCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password with its hash. Returns ErrInvalidPassword
// on mismatch; any other error is a dependency failure, never treated as
// "no password".
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}
