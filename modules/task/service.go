package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/task-api/domain/task"
	"github.com/example/task-api/domain/user"
	"github.com/example/task-api/events"
	"github.com/example/task-api/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// OwnerLookup resolves task owners for admin listings.
type OwnerLookup interface {
	GetUser(ctx context.Context, userID string) (*user.User, error)
}

// TaskService runs task operations behind the owner-or-admin policy.
// Every check happens before any write, so a failed call changes nothing.
type TaskService struct {
	repo     *TaskRepository
	owners   OwnerLookup
	eventBus mono.EventBus
	logger   types.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *TaskRepository, owners OwnerLookup, logger types.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		owners: owners,
		logger: logger,
	}
}

// SetEventBus enables task lifecycle events.
func (s *TaskService) SetEventBus(bus mono.EventBus) {
	s.eventBus = bus
}

// List returns every task for an admin and the actor's own tasks otherwise.
// Admin listings carry each task's owner.
func (s *TaskService) List(ctx context.Context, actor domain.Actor) ([]TaskView, error) {
	scope := domain.ListScope(actor)
	tasks, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	views := make([]TaskView, len(tasks))
	for i := range tasks {
		views[i] = TaskView{Task: tasks[i]}
	}
	if !scope.All {
		return views, nil
	}

	owners := map[string]*Owner{}
	for i := range views {
		ownerID := views[i].OwnerID
		owner, seen := owners[ownerID]
		if !seen {
			owner, err = s.lookupOwner(ctx, ownerID)
			if err != nil {
				return nil, err
			}
			owners[ownerID] = owner
		}
		views[i].Owner = owner
	}
	return views, nil
}

func (s *TaskService) lookupOwner(ctx context.Context, ownerID string) (*Owner, error) {
	if s.owners == nil {
		return nil, nil
	}
	u, err := s.owners.GetUser(ctx, ownerID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.logger.Warn("Task owner not found", "owner_id", ownerID)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load task owner %s: %w", ownerID, err)
	}
	return &Owner{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// Create stores a new task owned by actor.
func (s *TaskService) Create(ctx context.Context, actor domain.Actor, in TaskInput) (*domain.Task, error) {
	if !domain.Can(actor, domain.ActionCreate, nil) {
		return nil, forbidden(domain.ActionCreate)
	}

	c, err := parseInput(in, true)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &domain.Task{
		ID:          uuid.New().String(),
		Title:       *c.title,
		Description: c.description,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.completed != nil {
		t.Completed = *c.completed
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.logger.Info("Task created", "task_id", t.ID, "owner_id", t.OwnerID)
	s.publish(func(bus mono.EventBus) error {
		return events.TaskCreatedV1.Publish(bus, events.TaskCreatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			OwnerID:   t.OwnerID,
			CreatedAt: t.CreatedAt,
		}, nil)
	})

	return t, nil
}

// Get returns one task if actor may view it.
func (s *TaskService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error) {
	return s.authorize(ctx, actor, domain.ActionView, id)
}

// Update applies a partial update if actor may update the task.
func (s *TaskService) Update(ctx context.Context, actor domain.Actor, id string, in TaskInput) (*domain.Task, error) {
	current, err := s.authorize(ctx, actor, domain.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	c, err := parseInput(in, false)
	if err != nil {
		return nil, err
	}
	if c.empty() {
		return current, nil
	}

	if err := s.repo.Update(ctx, id, c.columns()); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task updated", "task_id", id, "actor_id", actor.ID, "fields", c.fieldNames())
	s.publish(func(bus mono.EventBus) error {
		return events.TaskUpdatedV1.Publish(bus, events.TaskUpdatedEvent{
			TaskID:    updated.ID,
			OwnerID:   updated.OwnerID,
			ActorID:   actor.ID,
			Fields:    c.fieldNames(),
			UpdatedAt: updated.UpdatedAt,
		}, nil)
	})
	if !current.Completed && updated.Completed {
		s.publish(func(bus mono.EventBus) error {
			return events.TaskCompletedV1.Publish(bus, events.TaskCompletedEvent{
				TaskID:      updated.ID,
				OwnerID:     updated.OwnerID,
				ActorID:     actor.ID,
				CompletedAt: updated.UpdatedAt,
			}, nil)
		})
	}

	return updated, nil
}

// Delete removes a task if actor may delete it.
func (s *TaskService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	t, err := s.authorize(ctx, actor, domain.ActionDelete, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("Task deleted", "task_id", id, "actor_id", actor.ID)
	s.publish(func(bus mono.EventBus) error {
		return events.TaskDeletedV1.Publish(bus, events.TaskDeletedEvent{
			TaskID:    t.ID,
			OwnerID:   t.OwnerID,
			ActorID:   actor.ID,
			DeletedAt: time.Now(),
		}, nil)
	})

	return nil
}

// authorize loads a task and checks action against it. A missing task is
// reported as not found before any ownership check runs.
func (s *TaskService) authorize(ctx context.Context, actor domain.Actor, action domain.Action, id string) (*domain.Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	if !domain.Can(actor, action, t) {
		s.logger.Warn("Task access denied", "task_id", id, "actor_id", actor.ID, "action", string(action))
		return nil, forbidden(action)
	}
	return t, nil
}

// publish is best-effort: a failed publish is logged and never fails the call.
func (s *TaskService) publish(emit func(mono.EventBus) error) {
	if s.eventBus == nil {
		return
	}
	if err := emit(s.eventBus); err != nil {
		s.logger.Warn("Failed to publish event", "error", err)
	}
}
