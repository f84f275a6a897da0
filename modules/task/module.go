package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-api/database"
	"github.com/example/task-api/domain/apperr"
	domain "github.com/example/task-api/domain/task"
	"github.com/example/task-api/events"
	"github.com/example/task-api/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// TaskModule provides task management services (core domain).
type TaskModule struct {
	dbOptions database.Options
	db        *gorm.DB
	repo      *TaskRepository
	service   *TaskService
	authPort  auth.AuthPort
	eventBus  mono.EventBus
	logger    types.Logger
}

var (
	_ mono.Module                = (*TaskModule)(nil)
	_ mono.ServiceProviderModule = (*TaskModule)(nil)
	_ mono.DependentModule       = (*TaskModule)(nil)
	_ mono.EventBusAwareModule   = (*TaskModule)(nil)
	_ mono.EventEmitterModule    = (*TaskModule)(nil)
	_ mono.HealthCheckableModule = (*TaskModule)(nil)
)

// NewModule creates a new TaskModule.
func NewModule(dbOptions database.Options, logger types.Logger) *TaskModule {
	return &TaskModule{
		dbOptions: dbOptions,
		logger:    logger.WithModule("task"),
	}
}

func (m *TaskModule) Name() string {
	return "task"
}

func (m *TaskModule) Dependencies() []string {
	return []string{"auth"}
}

func (m *TaskModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.authPort = auth.NewAuthAdapter(container)
	}
}

func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", []string{"list-tasks", "create-task", "get-task", "update-task", "delete-task"})
	return nil
}

func (m *TaskModule) Start(_ context.Context) error {
	if m.authPort == nil {
		return fmt.Errorf("auth dependency not set")
	}

	db, err := database.Open(m.dbOptions)
	if err != nil {
		return err
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.repo = NewTaskRepository(db)
	m.service = NewTaskService(m.repo, m.authPort, m.logger)
	if m.eventBus != nil {
		m.service.SetEventBus(m.eventBus)
	} else {
		m.logger.Warn("EventBus not set, events will not be published")
	}

	m.logger.Info("Module started", "database", m.dbOptions.Path, "depends_on", "auth")
	return nil
}

func (m *TaskModule) Stop(_ context.Context) error {
	if err := database.Close(m.db); err != nil {
		m.logger.Warn("Failed to close database", "error", err)
	}
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if err := database.Ping(m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	details := map[string]any{"database": m.dbOptions.Path}
	if count, err := m.repo.Count(ctx); err == nil {
		details["tasks"] = count
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(ctx, req.Actor)
	if err != nil {
		appErr, internal := m.reply("list-tasks", err)
		return ListTasksResponse{Error: appErr}, internal
	}
	return ListTasksResponse{Tasks: tasks}, nil
}

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Create(ctx, req.Actor, req.Input)
	if err != nil {
		appErr, internal := m.reply("create-task", err)
		return TaskResponse{Error: appErr}, internal
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Get(ctx, req.Actor, req.TaskID)
	if err != nil {
		appErr, internal := m.reply("get-task", err)
		return TaskResponse{Error: appErr}, internal
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Update(ctx, req.Actor, req.TaskID, req.Input)
	if err != nil {
		appErr, internal := m.reply("update-task", err)
		return TaskResponse{Error: appErr}, internal
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.Actor, req.TaskID); err != nil {
		appErr, internal := m.reply("delete-task", err)
		return DeleteTaskResponse{Error: appErr}, internal
	}
	return DeleteTaskResponse{Deleted: true}, nil
}

// reply splits err into a domain error for the reply body and an
// unexpected error that fails the request.
func (m *TaskModule) reply(service string, err error) (*apperr.Error, error) {
	appErr, internal := apperr.Reply(err)
	if internal != nil {
		m.logger.Error("Service failed", "service", service, "error", internal)
	}
	return appErr, internal
}
