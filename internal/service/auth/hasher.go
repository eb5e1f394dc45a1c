package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Interface to create or compare password hashes
type PasswordHasher interface {
	// Generate hash from password
	// Salt is random per call: the same password hashes differently twice
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	// A malformed hash is a mismatch, not a failure
	Compare(hashedPassword string, password string) error
}

// Bcrypt password hasher
// The sha256 pre-hash lifts the 72 byte bcrypt input limit
type BcryptHasher struct{}

func (h BcryptHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], bcrypt.DefaultCost)
	return string(hash), err
}

func (h BcryptHasher) Compare(hashedPassword string, password string) error {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), sum[:])
}

// GenerateEmailToken returns a random URL safe opaque string.
// Nothing about the company is derivable from it
func GenerateEmailToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error while generating email token. Err: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
