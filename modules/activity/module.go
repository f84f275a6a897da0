package activity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/task-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// DefaultCapacity is the number of entries kept when none is configured.
const DefaultCapacity = 256

// HealthEntries is how many of the latest entries Health reports.
const HealthEntries = 10

// Entry is one recorded lifecycle event.
type Entry struct {
	Type      string    `json:"type"`
	SubjectID string    `json:"subject_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityModule records user and task events as a driven adapter.
// Only the latest entries are kept; older ones are overwritten.
type ActivityModule struct {
	mu      sync.RWMutex
	entries []Entry
	next     int
	full     bool
	recorded uint64
	logger   types.Logger
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)
var _ mono.HealthCheckableModule = (*ActivityModule)(nil)

// NewModule creates an ActivityModule keeping up to capacity entries.
func NewModule(capacity int, logger types.Logger) *ActivityModule {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ActivityModule{
		entries: make([]Entry, capacity),
		logger:  logger.WithModule("activity"),
	}
}

func (m *ActivityModule) Name() string {
	return "activity"
}

func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.UserRegisteredV1, m.handleUserRegistered, m); err != nil {
		return fmt.Errorf("failed to register UserRegistered consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleTaskCompleted, m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", []string{"UserRegistered", "TaskCreated", "TaskUpdated", "TaskCompleted", "TaskDeleted"})
	return nil
}

func (m *ActivityModule) handleUserRegistered(_ context.Context, event events.UserRegisteredEvent, _ *mono.Msg) error {
	m.record(Entry{
		Type:      "user_registered",
		SubjectID: event.UserID,
		Message:   fmt.Sprintf("User %s registered as %s", event.Email, event.Role),
		Timestamp: event.RegisteredAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.record(Entry{
		Type:      "task_created",
		SubjectID: event.TaskID,
		ActorID:   event.OwnerID,
		Message:   fmt.Sprintf("Task '%s' created", event.Title),
		Timestamp: event.CreatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.record(Entry{
		Type:      "task_updated",
		SubjectID: event.TaskID,
		ActorID:   event.ActorID,
		Message:   fmt.Sprintf("Task %s updated: %v", event.TaskID, event.Fields),
		Timestamp: event.UpdatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskCompleted(_ context.Context, event events.TaskCompletedEvent, _ *mono.Msg) error {
	m.record(Entry{
		Type:      "task_completed",
		SubjectID: event.TaskID,
		ActorID:   event.ActorID,
		Message:   fmt.Sprintf("Task %s completed", event.TaskID),
		Timestamp: event.CompletedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.record(Entry{
		Type:      "task_deleted",
		SubjectID: event.TaskID,
		ActorID:   event.ActorID,
		Message:   fmt.Sprintf("Task %s deleted", event.TaskID),
		Timestamp: event.DeletedAt,
	})
	return nil
}

func (m *ActivityModule) record(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	m.logger.Info("Activity recorded", "type", e.Type, "subject_id", e.SubjectID, "actor_id", e.ActorID)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[m.next] = e
	m.recorded++
	m.next = (m.next + 1) % len(m.entries)
	if m.next == 0 {
		m.full = true
	}
}

// Recent returns the recorded entries, oldest first.
func (m *ActivityModule) Recent() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.recent()
}

func (m *ActivityModule) recent() []Entry {
	if !m.full {
		result := make([]Entry, m.next)
		copy(result, m.entries[:m.next])
		return result
	}

	result := make([]Entry, 0, len(m.entries))
	result = append(result, m.entries[m.next:]...)
	result = append(result, m.entries[:m.next]...)
	return result
}

// Health reports how many events were recorded and the latest few of them.
func (m *ActivityModule) Health(_ context.Context) mono.HealthStatus {
	m.mu.RLock()
	recorded := m.recorded
	entries := m.recent()
	m.mu.RUnlock()

	if len(entries) > HealthEntries {
		entries = entries[len(entries)-HealthEntries:]
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"capacity": len(m.entries),
			"recorded": recorded,
			"recent":   entries,
		},
	}
}

func (m *ActivityModule) Start(_ context.Context) error {
	m.logger.Info("Module started - listening for user and task events", "capacity", len(m.entries))
	return nil
}

func (m *ActivityModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}
