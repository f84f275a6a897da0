package task

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/example/task-api/database"
	domain "github.com/example/task-api/domain/task"
	"github.com/example/task-api/domain/user"
	"github.com/example/task-api/modules/auth"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }

// fakeOwners serves users from a map and counts lookups.
type fakeOwners struct {
	users map[string]*user.User
	calls int
}

func (f *fakeOwners) GetUser(_ context.Context, userID string) (*user.User, error) {
	f.calls++
	u, ok := f.users[userID]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

var (
	alice = domain.Actor{ID: "user-alice", Role: user.RoleAdmin}
	bob   = domain.Actor{ID: "user-bob", Role: user.RoleUser}
	carol = domain.Actor{ID: "user-carol", Role: user.RoleUser}
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{Path: database.Memory})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, db.AutoMigrate(&domain.Task{}))
	return db
}

func setupTestService(t *testing.T) (*TaskService, *TaskRepository, *fakeOwners) {
	t.Helper()

	owners := &fakeOwners{users: map[string]*user.User{
		alice.ID: {ID: alice.ID, Name: "Alice", Email: "alice@example.com", Role: user.RoleAdmin},
		bob.ID:   {ID: bob.ID, Name: "Bob", Email: "bob@example.com", Role: user.RoleUser},
	}}
	repo := NewTaskRepository(setupTestDB(t))
	return NewTaskService(repo, owners, &mockLogger{}), repo, owners
}

// input decodes a JSON body the way the HTTP layer does.
func input(t *testing.T, body string) TaskInput {
	t.Helper()

	var in TaskInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}
