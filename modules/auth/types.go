package auth

import (
	"github.com/example/task-api/domain/apperr"
	domain "github.com/example/task-api/domain/user"
)

// TokenTypeBearer is reported with every issued token.
const TokenTypeBearer = "bearer"

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenRequest carries a bearer token to the refresh and current-user services.
type TokenRequest struct {
	Token string `json:"token"`
}

// SessionResponse is the reply of register, login and refresh.
// Exactly one of Session and Error is set.
type SessionResponse struct {
	Session *domain.Session `json:"session,omitempty"`
	Error   *apperr.Error   `json:"error,omitempty"`
}

// LogoutRequest represents a logout request.
type LogoutRequest struct {
	UserID string `json:"user_id"`
}

// LogoutResponse represents a logout response.
type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// UserResponse is the reply of current-user and get-user.
type UserResponse struct {
	User  *domain.User  `json:"user,omitempty"`
	Error *apperr.Error `json:"error,omitempty"`
}
