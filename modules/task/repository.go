package task

import (
	"context"
	"errors"
	"time"

	domain "github.com/example/task-api/domain/task"
	"gorm.io/gorm"
)

// TaskRepository handles task persistence using GORM.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// FindByID finds a task by ID.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns the tasks in scope, oldest first.
func (r *TaskRepository) List(ctx context.Context, scope domain.Scope) ([]domain.Task, error) {
	query := r.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if !scope.All {
		query = query.Where("owner_id = ?", scope.OwnerID)
	}

	var tasks []domain.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies column updates to one task. owner_id is never written.
func (r *TaskRepository) Update(ctx context.Context, id string, columns map[string]any) error {
	delete(columns, "owner_id")
	columns["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Count returns the number of stored tasks.
func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Task{}).Count(&count).Error
	return count, err
}
