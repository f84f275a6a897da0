package api

import (
	"github.com/example/task-api/domain/apperr"
	"github.com/example/task-api/domain/user"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response is the envelope of every API response.
type Response struct {
	Status        string         `json:"status"`
	Message       string         `json:"message,omitempty"`
	Data          any            `json:"data,omitempty"`
	User          *user.User     `json:"user,omitempty"`
	Errors        apperr.Fields  `json:"errors,omitempty"`
	Authorization *Authorization `json:"authorization,omitempty"`
}

// Authorization describes the bearer token issued with a session.
type Authorization struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ExpiresIn int64  `json:"expires_in"`
}

// ErrorResponse builds an error envelope.
func ErrorResponse(message string) Response {
	return Response{Status: statusError, Message: message}
}
