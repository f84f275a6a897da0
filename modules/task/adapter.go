package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-api/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the interface for task operations (hexagonal port).
// This is the contract that driving adapters (like HTTP API) use to interact
// with the core domain.
type TaskPort interface {
	List(ctx context.Context, actor domain.Actor) ([]TaskView, error)
	Create(ctx context.Context, actor domain.Actor, in TaskInput) (*domain.Task, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error)
	Update(ctx context.Context, actor domain.Actor, id string, in TaskInput) (*domain.Task, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

var _ TaskPort = (*TaskService)(nil)
var _ TaskPort = (*taskAdapter)(nil)

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the ServiceContainer from the task module received via SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// List lists tasks via the list-tasks service.
func (a *taskAdapter) List(ctx context.Context, actor domain.Actor) ([]TaskView, error) {
	req := ListTasksRequest{Actor: actor}
	var resp ListTasksResponse
	if err := call(ctx, a.container, "list-tasks", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Tasks, nil
}

// Create creates a new task via the create-task service.
func (a *taskAdapter) Create(ctx context.Context, actor domain.Actor, in TaskInput) (*domain.Task, error) {
	req := CreateTaskRequest{Actor: actor, Input: in}
	var resp TaskResponse
	if err := call(ctx, a.container, "create-task", &req, &resp); err != nil {
		return nil, err
	}
	return taskResult(resp)
}

// Get retrieves a task by ID via the get-task service.
func (a *taskAdapter) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error) {
	req := GetTaskRequest{Actor: actor, TaskID: id}
	var resp TaskResponse
	if err := call(ctx, a.container, "get-task", &req, &resp); err != nil {
		return nil, err
	}
	return taskResult(resp)
}

// Update updates a task via the update-task service.
func (a *taskAdapter) Update(ctx context.Context, actor domain.Actor, id string, in TaskInput) (*domain.Task, error) {
	req := UpdateTaskRequest{Actor: actor, TaskID: id, Input: in}
	var resp TaskResponse
	if err := call(ctx, a.container, "update-task", &req, &resp); err != nil {
		return nil, err
	}
	return taskResult(resp)
}

// Delete deletes a task via the delete-task service.
func (a *taskAdapter) Delete(ctx context.Context, actor domain.Actor, id string) error {
	req := DeleteTaskRequest{Actor: actor, TaskID: id}
	var resp DeleteTaskResponse
	if err := call(ctx, a.container, "delete-task", &req, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	if !resp.Deleted {
		return fmt.Errorf("task not deleted: %s", id)
	}
	return nil
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

func taskResult(resp TaskResponse) (*domain.Task, error) {
	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.Task == nil {
		return nil, fmt.Errorf("task service returned an empty reply")
	}
	return resp.Task, nil
}
