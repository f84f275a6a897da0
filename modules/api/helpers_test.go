package api

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/task-api/database"
	domain "github.com/example/task-api/domain/task"
	"github.com/example/task-api/domain/user"
	"github.com/example/task-api/modules/auth"
	"github.com/example/task-api/modules/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret = "api-test-secret-key-0123456789"
	testIssuer = "test-issuer"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }

// setupTestApp wires the real auth and task services, each on its own
// in-memory database, behind the HTTP routes.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := &mockLogger{}

	userDB, err := database.Open(database.Options{Path: database.Memory})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(userDB) })
	require.NoError(t, userDB.AutoMigrate(&user.User{}))

	taskDB, err := database.Open(database.Options{Path: database.Memory})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(taskDB) })
	require.NoError(t, taskDB.AutoMigrate(&domain.Task{}))

	authService := auth.NewAuthService(
		auth.NewUserRepository(userDB),
		auth.NewPasswordHasherWithCost(bcrypt.MinCost),
		auth.NewTokenService(auth.JWTConfig{
			SecretKey:     testSecret,
			TokenDuration: 15 * time.Minute,
			Issuer:        testIssuer,
		}),
		nil,
		logger,
	)
	taskService := task.NewTaskService(task.NewTaskRepository(taskDB), authService, logger)

	return NewApp(authService, taskService, logger)
}

type apiResponse struct {
	Status int
	Raw    string
	Body   map[string]any
}

func (r apiResponse) message() string {
	msg, _ := r.Body["message"].(string)
	return msg
}

func (r apiResponse) object(key string) map[string]any {
	obj, _ := r.Body[key].(map[string]any)
	return obj
}

func (r apiResponse) list(key string) []any {
	list, _ := r.Body[key].([]any)
	return list
}

func doRequest(t *testing.T, app *fiber.App, method, path, token, body string) apiResponse {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	result := apiResponse{Status: resp.StatusCode, Raw: string(raw)}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &result.Body), "body: %s", raw)
	}
	return result
}

// registerUser registers an account and returns its id and token.
func registerUser(t *testing.T, app *fiber.App, name, email string) (string, string) {
	t.Helper()

	body := `{"name":"` + name + `","email":"` + email + `","password":"secret123","password_confirmation":"secret123"}`
	resp := doRequest(t, app, fiber.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Raw)

	id, _ := resp.object("user")["id"].(string)
	token, _ := resp.object("authorization")["token"].(string)
	require.NotEmpty(t, id)
	require.NotEmpty(t, token)
	return id, token
}
