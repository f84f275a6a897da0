package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "short password",
			password: "secret",
		},
		{
			name:     "complex password",
			password: "P@ssw0rd!#$%^&*()",
		},
		{
			name:     "unicode password",
			password: "contraseña123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}

			if hash == "" || hash == tt.password {
				t.Fatalf("Hash() = %q, want a bcrypt hash", hash)
			}

			if !hasher.Verify(tt.password, hash) {
				t.Error("Verify() returned false for correct password")
			}
			if hasher.Verify(tt.password+"x", hash) {
				t.Error("Verify() returned true for wrong password")
			}
		})
	}
}

func TestPasswordHasher_VerifyInvalidHash(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	if hasher.Verify("password", "not-a-hash") {
		t.Error("Verify() should fail for a malformed hash")
	}
	if hasher.Verify("password", "") {
		t.Error("Verify() should fail for an empty hash")
	}
}

func TestNewPasswordHasherWithCost_OutOfRange(t *testing.T) {
	if h := NewPasswordHasherWithCost(100); h.cost != DefaultBcryptCost {
		t.Errorf("cost = %d, want %d", h.cost, DefaultBcryptCost)
	}
	if h := NewPasswordHasherWithCost(0); h.cost != DefaultBcryptCost {
		t.Errorf("cost = %d, want %d", h.cost, DefaultBcryptCost)
	}
}

func TestPasswordHasher_VerifyNothing(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	hasher.VerifyNothing("anything")
	if len(hasher.dummyHash) == 0 {
		t.Error("VerifyNothing() should prepare a dummy hash")
	}
}
