package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/task-api/domain/apperr"
	domain "github.com/example/task-api/domain/user"
	"github.com/example/task-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// AuthService handles registration, login and token resolution.
type AuthService struct {
	repo     *UserRepository
	hasher   *PasswordHasher
	tokens   *TokenService
	users    *userLookup
	eventBus mono.EventBus
	logger   types.Logger
}

// NewAuthService creates a new AuthService. users may be nil, in which case
// lookups go straight to repo.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, tokens *TokenService, users *userLookup, logger types.Logger) *AuthService {
	if users == nil {
		users = newUserLookup(repo, nil, logger)
	}
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// SetEventBus enables UserRegistered events.
func (s *AuthService) SetEventBus(bus mono.EventBus) {
	s.eventBus = bus
}

// Register creates a new account and signs the user in. The first account
// ever created becomes admin.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.Session, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)

	fields := validateRegistration(req)
	if fields.Empty() {
		exists, err := s.repo.EmailExists(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email existence: %w", err)
		}
		if exists {
			fields.Add("email", "The email has already been taken.")
		}
	}
	if !fields.Empty() {
		return nil, apperr.Validation(fields)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			// Lost a race with a concurrent registration for the same email.
			return nil, apperr.Validation(apperr.Fields{
				"email": {"The email has already been taken."},
			})
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	s.publishRegistered(user)

	return s.newSession(user)
}

// Login authenticates by email and password. An unknown email and a wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*domain.Session, error) {
	req.Email = normalizeEmail(req.Email)
	if fields := validateLogin(req); !fields.Empty() {
		return nil, apperr.Validation(fields)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.VerifyNothing(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(user)
}

// Logout has no server-side effect. The token stays valid until it expires;
// discarding it is up to the client.
func (s *AuthService) Logout(_ context.Context, userID string) error {
	s.logger.Debug("User logged out", "user_id", userID)
	return nil
}

// Refresh issues a new token for the holder of a valid one.
func (s *AuthService) Refresh(ctx context.Context, token string) (*domain.Session, error) {
	newToken, claims, err := s.tokens.Refresh(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		User:      *user,
		Token:     newToken,
		TokenType: TokenTypeBearer,
		ExpiresIn: s.tokens.ExpiresIn(),
	}, nil
}

// CurrentUser resolves the user a token was issued to.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return s.users.Get(ctx, claims.UserID)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *AuthService) newSession(user *domain.User) (*domain.Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.Session{
		User:      *user,
		Token:     token,
		TokenType: TokenTypeBearer,
		ExpiresIn: s.tokens.ExpiresIn(),
	}, nil
}

func (s *AuthService) publishRegistered(user *domain.User) {
	if s.eventBus == nil {
		return
	}
	event := events.UserRegisteredEvent{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         string(user.Role),
		RegisteredAt: user.CreatedAt,
	}
	if err := events.UserRegisteredV1.Publish(s.eventBus, event, nil); err != nil {
		s.logger.Warn("Failed to publish UserRegistered event", "user_id", user.ID, "error", err)
	}
}
