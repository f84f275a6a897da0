package task

import (
	"time"
)

// MaxTitleLength is the maximum number of characters in a task title.
const MaxTitleLength = 255

// Task represents a unit of work owned by exactly one user.
type Task struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	Title       string    `gorm:"not null;type:text" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Completed   bool      `gorm:"not null" json:"completed"`
	OwnerID     string    `gorm:"index;not null;type:text" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
