package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-api/database"
	"github.com/example/task-api/domain/apperr"
	domain "github.com/example/task-api/domain/user"
	"github.com/example/task-api/events"
	"github.com/example/task-api/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// Config configures the auth module.
type Config struct {
	DB  database.Options
	JWT JWTConfig
	// Cache is optional; nil disables the Redis user cache.
	Cache      *cache.Config
	BcryptCost int
}

// AuthModule provides authentication services.
type AuthModule struct {
	config   Config
	db       *gorm.DB
	cache    *cache.Cache
	service  *AuthService
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*AuthModule)(nil)
	_ mono.ServiceProviderModule = (*AuthModule)(nil)
	_ mono.HealthCheckableModule = (*AuthModule)(nil)
	_ mono.EventBusAwareModule   = (*AuthModule)(nil)
	_ mono.EventEmitterModule    = (*AuthModule)(nil)
)

// NewModule creates a new AuthModule.
func NewModule(config Config, logger types.Logger) *AuthModule {
	return &AuthModule{
		config: config,
		logger: logger.WithModule("auth"),
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// SetEventBus receives the EventBus from the framework.
func (m *AuthModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *AuthModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.UserRegisteredV1.ToBase(),
	}
}

// Start opens the database and builds the service.
func (m *AuthModule) Start(ctx context.Context) error {
	db, err := database.Open(m.config.DB)
	if err != nil {
		return err
	}
	m.db = db

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if m.config.Cache != nil {
		c, err := cache.Connect(ctx, *m.config.Cache)
		if err != nil {
			// Token resolution still works from the database alone.
			m.logger.Warn("User cache disabled", "error", err)
		} else {
			m.cache = c
		}
	}

	repo := NewUserRepository(db)
	hasher := NewPasswordHasherWithCost(m.config.BcryptCost)
	tokens := NewTokenService(m.config.JWT)
	users := newUserLookup(repo, m.cache, m.logger)

	m.service = NewAuthService(repo, hasher, tokens, users, m.logger)
	if m.eventBus != nil {
		m.service.SetEventBus(m.eventBus)
	} else {
		m.logger.Warn("EventBus not set, events will not be published")
	}

	m.logger.Info("Module started",
		"database", m.config.DB.Path,
		"cache", m.cache != nil,
		"token_ttl", m.config.JWT.TokenDuration.String())
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			m.logger.Warn("Failed to close cache", "error", err)
		}
	}
	if err := database.Close(m.db); err != nil {
		m.logger.Warn("Failed to close database", "error", err)
	}
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	if err := database.Ping(m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	details := map[string]any{
		"database": m.config.DB.Path,
		"cache":    "disabled",
	}
	if m.cache != nil {
		if err := m.cache.Ping(ctx); err != nil {
			details["cache"] = fmt.Sprintf("unreachable: %v", err)
		} else {
			details["cache"] = m.cache.Stats()
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

// Service returns the auth service. It is nil until Start has run.
func (m *AuthModule) Service() *AuthService {
	return m.service
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "register", json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "logout", json.Unmarshal, json.Marshal, m.handleLogout,
	); err != nil {
		return fmt.Errorf("failed to register logout service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "refresh-token", json.Unmarshal, json.Marshal, m.handleRefresh,
	); err != nil {
		return fmt.Errorf("failed to register refresh-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "current-user", json.Unmarshal, json.Marshal, m.handleCurrentUser,
	); err != nil {
		return fmt.Errorf("failed to register current-user service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", []string{"register", "login", "logout", "refresh-token", "current-user", "get-user"})
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (SessionResponse, error) {
	session, err := m.service.Register(ctx, req)
	return m.sessionReply("register", session, err)
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (SessionResponse, error) {
	session, err := m.service.Login(ctx, req)
	return m.sessionReply("login", session, err)
}

func (m *AuthModule) handleLogout(ctx context.Context, req LogoutRequest, _ *mono.Msg) (LogoutResponse, error) {
	if err := m.service.Logout(ctx, req.UserID); err != nil {
		return LogoutResponse{}, err
	}
	return LogoutResponse{LoggedOut: true}, nil
}

func (m *AuthModule) handleRefresh(ctx context.Context, req TokenRequest, _ *mono.Msg) (SessionResponse, error) {
	session, err := m.service.Refresh(ctx, req.Token)
	return m.sessionReply("refresh-token", session, err)
}

func (m *AuthModule) handleCurrentUser(ctx context.Context, req TokenRequest, _ *mono.Msg) (UserResponse, error) {
	user, err := m.service.CurrentUser(ctx, req.Token)
	return m.userReply("current-user", user, err)
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (UserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	return m.userReply("get-user", user, err)
}

// sessionReply puts domain failures in the reply body, where they keep
// their code, and fails the request for anything unexpected.
func (m *AuthModule) sessionReply(service string, session *domain.Session, err error) (SessionResponse, error) {
	if err == nil {
		return SessionResponse{Session: session}, nil
	}
	appErr, internal := apperr.Reply(err)
	if internal != nil {
		m.logger.Error("Service failed", "service", service, "error", internal)
		return SessionResponse{}, internal
	}
	return SessionResponse{Error: appErr}, nil
}

func (m *AuthModule) userReply(service string, user *domain.User, err error) (UserResponse, error) {
	if err == nil {
		return UserResponse{User: user}, nil
	}
	appErr, internal := apperr.Reply(err)
	if internal != nil {
		m.logger.Error("Service failed", "service", service, "error", internal)
		return UserResponse{}, internal
	}
	return UserResponse{Error: appErr}, nil
}
