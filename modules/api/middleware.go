package api

import (
	"strings"

	"github.com/example/task-api/domain/apperr"
	domain "github.com/example/task-api/domain/task"
	"github.com/example/task-api/domain/user"
	"github.com/example/task-api/modules/auth"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store the authenticated user in the Fiber context.
	UserContextKey = "user"
	// TokenContextKey is the key used to store the raw bearer token in the Fiber context.
	TokenContextKey = "token"

	unauthenticated = "Unauthenticated."
)

// AuthMiddleware resolves the bearer token to a user. Every token failure,
// expired or malformed, gets the same 401 body; only the log tells them apart.
func AuthMiddleware(authPort auth.AuthPort, logger types.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			logger.Debug("Missing or malformed authorization header", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(unauthenticated))
		}

		u, err := authPort.CurrentUser(c.UserContext(), token)
		if err != nil {
			appErr := apperr.From(err)
			switch appErr.Code {
			case apperr.CodeInvalidToken, apperr.CodeExpiredToken, apperr.CodeUserNotFound:
				logger.Info("Rejected bearer token", "path", c.Path(), "reason", string(appErr.Code))
				return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(unauthenticated))
			default:
				logger.Error("Failed to resolve current user", "path", c.Path(), "error", err)
				return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("An internal error occurred"))
			}
		}

		c.Locals(UserContextKey, u)
		c.Locals(TokenContextKey, token)
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// currentUser returns the user stored by AuthMiddleware.
func currentUser(c *fiber.Ctx) *user.User {
	u, _ := c.Locals(UserContextKey).(*user.User)
	return u
}

func currentActor(c *fiber.Ctx) domain.Actor {
	u := currentUser(c)
	if u == nil {
		return domain.Actor{}
	}
	return domain.ActorFromUser(u)
}
