package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the default cost for bcrypt hashing.
	DefaultBcryptCost = 12

	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

// PasswordHasher provides password hashing and verification functionality.
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewPasswordHasher creates a new PasswordHasher with default cost.
func NewPasswordHasher() *PasswordHasher {
	return NewPasswordHasherWithCost(DefaultBcryptCost)
}

// NewPasswordHasherWithCost creates a PasswordHasher with the given cost.
// Costs outside bcrypt's range fall back to the default.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash generates a bcrypt hash of the given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify checks if the provided password matches the hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// VerifyNothing runs a comparison against a throwaway hash so a login for an
// unknown email costs the same as one with a wrong password.
func (h *PasswordHasher) VerifyNothing(password string) {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}
