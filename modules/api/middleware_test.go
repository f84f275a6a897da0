package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header    string
		wantToken string
		wantOK    bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := bearerToken(tt.header)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	app := setupTestApp(t)
	userID, _ := registerUser(t, app, "Alice", "alice@example.com")

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("some-other-secret-key"))
	require.NoError(t, err)

	ghost, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   "no-such-user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	malformed := doRequest(t, app, fiber.MethodGet, "/api/auth/me", "not-a-jwt", "")
	require.Equal(t, fiber.StatusUnauthorized, malformed.Status)
	assert.Equal(t, "Unauthenticated.", malformed.message())

	for name, token := range map[string]string{"expired": expired, "foreign": foreign, "ghost": ghost} {
		t.Run(name, func(t *testing.T) {
			resp := doRequest(t, app, fiber.MethodGet, "/api/auth/me", token, "")
			assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
			assert.Equal(t, malformed.Raw, resp.Raw)
		})
	}

	t.Run("missing header", func(t *testing.T) {
		resp := doRequest(t, app, fiber.MethodGet, "/api/tasks", "", "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
		assert.Equal(t, malformed.Raw, resp.Raw)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired refresh", func(t *testing.T) {
		resp := doRequest(t, app, fiber.MethodPost, "/api/auth/refresh", expired, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
		assert.Equal(t, malformed.Raw, resp.Raw)
	})
}
