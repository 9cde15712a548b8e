package service

import (
	"errors"
	"fmt"

	"github.com/msomdec/shelfmate/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Credential is a password value in one of two states: plain text that still
// needs hashing, or an already sealed bcrypt hash.
type Credential struct {
	value  string
	sealed bool
}

// PlainCredential wraps a password as typed by the user.
func PlainCredential(password string) Credential {
	return Credential{value: password}
}

// SealedCredential wraps a value that is already a bcrypt hash.
func SealedCredential(hash string) Credential {
	return Credential{value: hash, sealed: true}
}

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher. Cost 10 matches the work
// factor existing hashes were created with.
func NewPasswordHasher(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Seal returns the value to persist for c. Plain credentials are hashed with
// a fresh salt; sealed credentials pass through untouched, so a stored hash
// is never hashed a second time.
func (h *PasswordHasher) Seal(c Credential) (string, error) {
	if c.sealed {
		return c.value, nil
	}
	return h.Hash(c.value)
}

// Hash returns a salted bcrypt hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password must be at most 72 bytes", domain.ErrInvalidInput)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A mismatch is not an error;
// a hash bcrypt cannot parse is.
func (h *PasswordHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("compare password: %w", err)
}
