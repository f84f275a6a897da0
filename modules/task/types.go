package task

import (
	"github.com/example/task-api/domain/apperr"
	domain "github.com/example/task-api/domain/task"
)

// Owner is the public part of a task owner, attached to admin listings.
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskView is a task as listed. Owner is set only for admin listings.
type TaskView struct {
	domain.Task
	Owner *Owner `json:"user,omitempty"`
}

// ListTasksRequest is the request for listing tasks.
type ListTasksRequest struct {
	Actor domain.Actor `json:"actor"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []TaskView    `json:"tasks"`
	Error *apperr.Error `json:"error,omitempty"`
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Actor domain.Actor `json:"actor"`
	Input TaskInput    `json:"input"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	Actor  domain.Actor `json:"actor"`
	TaskID string       `json:"task_id"`
}

// UpdateTaskRequest is the request for updating a task.
type UpdateTaskRequest struct {
	Actor  domain.Actor `json:"actor"`
	TaskID string       `json:"task_id"`
	Input  TaskInput    `json:"input"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	Actor  domain.Actor `json:"actor"`
	TaskID string       `json:"task_id"`
}

// TaskResponse is the response for a single task.
type TaskResponse struct {
	Task  *domain.Task  `json:"task,omitempty"`
	Error *apperr.Error `json:"error,omitempty"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool          `json:"deleted"`
	Error   *apperr.Error `json:"error,omitempty"`
}
