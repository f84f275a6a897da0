package auth

import (
	"errors"

	"github.com/example/task-api/domain/apperr"
)

var (
	// ErrInvalidToken is returned when a token is malformed or its signature does not verify.
	ErrInvalidToken = apperr.New(apperr.CodeInvalidToken, "invalid token")
	// ErrExpiredToken is returned when a token is past its expiry.
	ErrExpiredToken = apperr.New(apperr.CodeExpiredToken, "token has expired")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
	ErrInvalidCredentials = apperr.New(apperr.CodeInvalidCredentials, "invalid email or password")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = apperr.New(apperr.CodeUserNotFound, "user not found")
)

// ErrUserExists is returned by the repository when the email is taken.
// The service reports it to callers as a validation error on the email field.
var ErrUserExists = errors.New("user with this email already exists")
