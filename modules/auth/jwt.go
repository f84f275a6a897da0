package auth

import (
	"errors"
	"time"

	domain "github.com/example/task-api/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	SecretKey     string
	TokenDuration time.Duration
	Issuer        string
}

// TokenService issues and validates stateless HS256 bearer tokens.
// Nothing is stored server-side: a token stays valid until its expiry even
// after logout or refresh.
type TokenService struct {
	config JWTConfig
	now    func() time.Time
}

// NewTokenService creates a new TokenService with the given configuration.
func NewTokenService(config JWTConfig) *TokenService {
	return &TokenService{
		config: config,
		now:    time.Now,
	}
}

// Issue signs a new token for userID.
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   userID,
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// Validate verifies the token and returns its claims.
func (s *TokenService) Validate(tokenString string) (*domain.Claims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	result := &domain.Claims{
		UserID:    claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}

// Refresh validates tokenString and issues a replacement with a renewed
// expiry. The old token is not invalidated.
func (s *TokenService) Refresh(tokenString string) (string, *domain.Claims, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return "", nil, err
	}

	token, err := s.Issue(claims.UserID)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// ExpiresIn returns the token lifetime in seconds.
func (s *TokenService) ExpiresIn() int64 {
	return int64(s.config.TokenDuration.Seconds())
}
