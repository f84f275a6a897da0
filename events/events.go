package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// UserRegisteredEvent is emitted when a new account is created.
type UserRegisteredEvent struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserRegisteredV1 is the typed event definition for user registration.
// Subject: events.auth.v1.user-registered
var UserRegisteredV1 = helper.EventDefinition[UserRegisteredEvent](
	"auth", "UserRegistered", "v1",
)

// TaskCreatedEvent is emitted when a new task is created.
type TaskCreatedEvent struct {
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskUpdatedEvent is emitted after a task's fields change.
type TaskUpdatedEvent struct {
	TaskID    string    `json:"task_id"`
	OwnerID   string    `json:"owner_id"`
	ActorID   string    `json:"actor_id"`
	Fields    []string  `json:"fields"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskUpdatedV1 is the typed event definition for task updates.
// Subject: events.task.v1.task-updated
var TaskUpdatedV1 = helper.EventDefinition[TaskUpdatedEvent](
	"task", "TaskUpdated", "v1",
)

// TaskCompletedEvent is emitted when an update marks a task complete.
type TaskCompletedEvent struct {
	TaskID      string    `json:"task_id"`
	OwnerID     string    `json:"owner_id"`
	ActorID     string    `json:"actor_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// TaskCompletedV1 is the typed event definition for task completion.
// Subject: events.task.v1.task-completed
var TaskCompletedV1 = helper.EventDefinition[TaskCompletedEvent](
	"task", "TaskCompleted", "v1",
)

// TaskDeletedEvent is emitted when a task is deleted.
type TaskDeletedEvent struct {
	TaskID    string    `json:"task_id"`
	OwnerID   string    `json:"owner_id"`
	ActorID   string    `json:"actor_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is the typed event definition for task deletion.
// Subject: events.task.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"task", "TaskDeleted", "v1",
)
