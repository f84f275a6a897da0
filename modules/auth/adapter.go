package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-api/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for authentication operations.
// This is the port that other modules use to access auth functionality.
type AuthPort interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Session, error)
	Login(ctx context.Context, req LoginRequest) (*domain.Session, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, token string) (*domain.Session, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// The service is usable in-process wherever the port is expected.
var _ AuthPort = (*AuthService)(nil)
var _ AuthPort = (*AuthAdapter)(nil)

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Register calls the register service.
func (a *AuthAdapter) Register(ctx context.Context, req RegisterRequest) (*domain.Session, error) {
	return callSession(ctx, a.container, "register", &req)
}

// Login calls the login service.
func (a *AuthAdapter) Login(ctx context.Context, req LoginRequest) (*domain.Session, error) {
	return callSession(ctx, a.container, "login", &req)
}

// Refresh calls the refresh-token service.
func (a *AuthAdapter) Refresh(ctx context.Context, token string) (*domain.Session, error) {
	return callSession(ctx, a.container, "refresh-token", &TokenRequest{Token: token})
}

// Logout calls the logout service.
func (a *AuthAdapter) Logout(ctx context.Context, userID string) error {
	req := LogoutRequest{UserID: userID}
	var resp LogoutResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"logout",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// CurrentUser resolves a token to its user via the current-user service.
func (a *AuthAdapter) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return callUser(ctx, a.container, "current-user", &TokenRequest{Token: token})
}

// GetUser retrieves a user by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return callUser(ctx, a.container, "get-user", &GetUserRequest{UserID: userID})
}

func callSession[Req any](ctx context.Context, container mono.ServiceContainer, service string, req *Req) (*domain.Session, error) {
	var resp SessionResponse

	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s request failed: %w", service, err)
	}

	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.Session == nil {
		return nil, fmt.Errorf("%s returned an empty reply", service)
	}
	return resp.Session, nil
}

func callUser[Req any](ctx context.Context, container mono.ServiceContainer, service string, req *Req) (*domain.User, error) {
	var resp UserResponse

	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s request failed: %w", service, err)
	}

	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.User == nil {
		return nil, fmt.Errorf("%s returned an empty reply", service)
	}
	return resp.User, nil
}
