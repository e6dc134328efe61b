package task

import (
	"time"

	"github.com/example/task-tracker/domain/project"
)

// Priority is the closed set of task priorities. The same set is
// enforced on create and on edit.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is one of the known values.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Status is the closed set of task statuses.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// DueDateLayout is the accepted due date format.
const DueDateLayout = "2006-01-02"

// Task represents a task entity. Every task belongs to exactly one
// project and exactly one owning user.
type Task struct {
	ID          string           `gorm:"primaryKey;type:text"`
	Title       string           `gorm:"not null;type:text"`
	Description string           `gorm:"type:text"`
	DueDate     string           `gorm:"not null;type:text"`
	Priority    Priority         `gorm:"not null;type:text"`
	Status      Status           `gorm:"not null;type:text"`
	ProjectID   string           `gorm:"not null;index;type:text"`
	Project     *project.Project `gorm:"foreignKey:ProjectID"`
	OwnerID     string           `gorm:"not null;index;type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// Filter narrows a task listing. Empty fields impose no constraint;
// supplied fields are combined conjunctively as equality predicates.
type Filter struct {
	Priority  string
	Status    string
	ProjectID string
}
