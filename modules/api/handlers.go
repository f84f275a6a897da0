package api

import (
	"github.com/example/task-api/domain/apperr"
	"github.com/example/task-api/domain/user"
	"github.com/example/task-api/modules/auth"
	"github.com/example/task-api/modules/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth   auth.AuthPort
	tasks  task.TaskPort
	logger types.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort, logger types.Logger) *Handlers {
	return &Handlers{
		auth:   authPort,
		tasks:  taskPort,
		logger: logger,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c, err)
	}

	session, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err, "An error occurred while registering the user")
	}

	resp := sessionResponse(session)
	resp.Message = "User created successfully"
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c, err)
	}

	session, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err, "An error occurred while logging in")
	}

	return c.Status(fiber.StatusOK).JSON(sessionResponse(session))
}

// Logout ends the session. The token itself stays valid until it expires.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), currentUser(c).ID); err != nil {
		return h.fail(c, err, "An error occurred while logging out")
	}

	return c.Status(fiber.StatusOK).JSON(Response{
		Status:  statusSuccess,
		Message: "Successfully logged out",
	})
}

// Refresh issues a new token for the caller.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	token, _ := c.Locals(TokenContextKey).(string)

	session, err := h.auth.Refresh(c.UserContext(), token)
	if err != nil {
		return h.fail(c, err, "An error occurred while refreshing the token")
	}

	return c.Status(fiber.StatusOK).JSON(sessionResponse(session))
}

// Me returns the authenticated user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Status: statusSuccess,
		User:   currentUser(c),
	})
}

// ListTasks returns the caller's tasks, or every task for an admin.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.tasks.List(c.UserContext(), currentActor(c))
	if err != nil {
		return h.fail(c, err, "An error occurred while listing tasks")
	}
	if tasks == nil {
		tasks = []task.TaskView{}
	}

	return c.Status(fiber.StatusOK).JSON(Response{
		Status: statusSuccess,
		Data:   tasks,
	})
}

// CreateTask creates a task owned by the caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var in task.TaskInput
	if err := c.BodyParser(&in); err != nil {
		return h.invalidBody(c, err)
	}

	t, err := h.tasks.Create(c.UserContext(), currentActor(c), in)
	if err != nil {
		return h.fail(c, err, "An error occurred while creating the task")
	}

	return c.Status(fiber.StatusCreated).JSON(Response{
		Status:  statusSuccess,
		Message: "Task created successfully",
		Data:    t,
	})
}

// ShowTask returns one task.
func (h *Handlers) ShowTask(c *fiber.Ctx) error {
	t, err := h.tasks.Get(c.UserContext(), currentActor(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "An error occurred while retrieving the task")
	}

	return c.Status(fiber.StatusOK).JSON(Response{
		Status: statusSuccess,
		Data:   t,
	})
}

// UpdateTask applies a partial update to a task.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var in task.TaskInput
	if err := c.BodyParser(&in); err != nil {
		return h.invalidBody(c, err)
	}

	t, err := h.tasks.Update(c.UserContext(), currentActor(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err, "An error occurred while updating the task")
	}

	return c.Status(fiber.StatusOK).JSON(Response{
		Status:  statusSuccess,
		Message: "Task updated successfully",
		Data:    t,
	})
}

// DeleteTask removes a task.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	if err := h.tasks.Delete(c.UserContext(), currentActor(c), c.Params("id")); err != nil {
		return h.fail(c, err, "An error occurred while deleting the task")
	}

	return c.Status(fiber.StatusOK).JSON(Response{
		Status:  statusSuccess,
		Message: "Task deleted successfully",
	})
}

func sessionResponse(session *user.Session) Response {
	u := session.User
	return Response{
		Status: statusSuccess,
		User:   &u,
		Authorization: &Authorization{
			Token:     session.Token,
			Type:      session.TokenType,
			ExpiresIn: session.ExpiresIn,
		},
	}
}

// invalidBody reports an unparseable request body as a validation failure.
func (h *Handlers) invalidBody(c *fiber.Ctx, err error) error {
	h.logger.Debug("Invalid request body", "path", c.Path(), "error", err)

	fields := apperr.Fields{}
	fields.Add("body", "The request body must be a valid JSON object.")
	return c.Status(fiber.StatusUnprocessableEntity).JSON(Response{
		Status:  statusError,
		Message: "Validation failed",
		Errors:  fields,
	})
}

// fail translates err into a response. Unexpected errors are logged and
// answered with fallback, never with their own text.
func (h *Handlers) fail(c *fiber.Ctx, err error, fallback string) error {
	appErr := apperr.From(err)

	switch appErr.Code {
	case apperr.CodeValidation:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(Response{
			Status:  statusError,
			Message: "Validation failed",
			Errors:  appErr.Fields,
		})
	case apperr.CodeInvalidCredentials:
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Invalid credentials"))
	case apperr.CodeInvalidToken, apperr.CodeExpiredToken, apperr.CodeUserNotFound:
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(unauthenticated))
	case apperr.CodeForbidden:
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse(appErr.Message))
	case apperr.CodeNotFound:
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse(appErr.Message))
	default:
		h.logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fallback))
	}
}
