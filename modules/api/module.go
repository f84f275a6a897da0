package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/task-api/modules/auth"
	"github.com/example/task-api/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module.
type APIModule struct {
	addr     string
	app      *fiber.App
	authPort auth.AuthPort
	taskPort task.TaskPort
	health   HealthSource
	logger   types.Logger
}

// HealthSource reports the aggregated health of the running application.
type HealthSource func(ctx context.Context) mono.FrameworkHealth

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule listening on addr.
func NewModule(addr string, logger types.Logger) *APIModule {
	return &APIModule{
		addr:   addr,
		logger: logger.WithModule("api"),
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	case "task":
		m.taskPort = task.NewTaskAdapter(container)
	}
}

// SetHealthSource makes GET /health report the whole application instead of
// only this module. It must be called before Start.
func (m *APIModule) SetHealthSource(source HealthSource) {
	m.health = source
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authPort == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.taskPort == nil {
		return fmt.Errorf("task dependency not set")
	}

	m.app = newApp(m.authPort, m.taskPort, m.health, m.logger)

	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", m.addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server...")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// NewApp builds the Fiber application with every route mounted.
func NewApp(authPort auth.AuthPort, taskPort task.TaskPort, log types.Logger) *fiber.App {
	return newApp(authPort, taskPort, nil, log)
}

func newApp(authPort auth.AuthPort, taskPort task.TaskPort, health HealthSource, log types.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	setupRoutes(app, NewHandlers(authPort, taskPort, log), AuthMiddleware(authPort, log), health)
	return app
}

// setupRoutes configures all API routes.
func setupRoutes(app *fiber.App, handlers *Handlers, authenticated fiber.Handler, health HealthSource) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if health == nil {
			return c.JSON(fiber.Map{
				"status": "healthy",
				"module": "api",
			})
		}

		report := health(c.UserContext())
		status, code := "healthy", fiber.StatusOK
		if !report.Healthy {
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":      status,
			"module":      "api",
			"application": report,
		})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", handlers.Register)
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/logout", authenticated, handlers.Logout)
	authRoutes.Post("/refresh", authenticated, handlers.Refresh)
	authRoutes.Get("/me", authenticated, handlers.Me)

	tasks := api.Group("/tasks", authenticated)
	tasks.Get("/", handlers.ListTasks)
	tasks.Post("/", handlers.CreateTask)
	tasks.Get("/:id", handlers.ShowTask)
	tasks.Put("/:id", handlers.UpdateTask)
	tasks.Delete("/:id", handlers.DeleteTask)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse(message))
}
