package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	domain "github.com/example/task-api/domain/user"
	"github.com/google/uuid"
)

func newTestUser(email string) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           uuid.New().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_FirstUserIsAdmin(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	first := newTestUser("first@example.com")
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if first.Role != domain.RoleAdmin {
		t.Errorf("first.Role = %q, want %q", first.Role, domain.RoleAdmin)
	}

	for i := 0; i < 3; i++ {
		u := newTestUser(fmt.Sprintf("user%d@example.com", i))
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if u.Role != domain.RoleUser {
			t.Errorf("user %d Role = %q, want %q", i, u.Role, domain.RoleUser)
		}
	}

	stored, err := repo.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.Role != domain.RoleAdmin {
		t.Errorf("stored role = %q, want %q", stored.Role, domain.RoleAdmin)
	}
}

func TestUserRepository_ConcurrentCreateYieldsOneAdmin(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.Create(ctx, newTestUser(fmt.Sprintf("racer%d@example.com", i)))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	admins, err := repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("CountByRole() error = %v", err)
	}
	if admins != 1 {
		t.Errorf("admins = %d, want exactly 1", admins)
	}

	users, _ := repo.CountByRole(ctx, domain.RoleUser)
	if users != n-1 {
		t.Errorf("users = %d, want %d", users, n-1)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, newTestUser("dup@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.Create(ctx, newTestUser("dup@example.com"))
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Create() error = %v, want %v", err, ErrUserExists)
	}

	exists, err := repo.EmailExists(ctx, "dup@example.com")
	if err != nil || !exists {
		t.Errorf("EmailExists() = %v, %v; want true, nil", exists, err)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("FindByID() error = %v, want %v", err, ErrUserNotFound)
	}
	if _, err := repo.FindByEmail(ctx, "missing@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("FindByEmail() error = %v, want %v", err, ErrUserNotFound)
	}
}
