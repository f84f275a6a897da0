package auth

import (
	"testing"

	"github.com/example/task-api/database"
	domain "github.com/example/task-api/domain/user"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

func newMockLogger() types.Logger {
	return &mockLogger{}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{Path: database.Memory})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func setupTestService(t *testing.T) (*AuthService, *UserRepository) {
	t.Helper()

	repo := NewUserRepository(setupTestDB(t))
	svc := NewAuthService(
		repo,
		NewPasswordHasherWithCost(bcrypt.MinCost),
		NewTokenService(testJWTConfig()),
		nil,
		newMockLogger(),
	)
	return svc, repo
}

func registerRequest(name, email string) RegisterRequest {
	return RegisterRequest{
		Name:                 name,
		Email:                email,
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	}
}
