package task

import (
	"time"

	"github.com/example/task-tracker/domain/user"
)

// PrincipalParams identifies the caller on every task service request.
// Requests cross the service bus as JSON, so the principal travels with
// them instead of living in ambient state.
type PrincipalParams struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Principal converts the wire form into a domain principal.
func (p PrincipalParams) Principal() user.Principal {
	return user.Principal{UserID: p.UserID, Role: user.Role(p.Role)}
}

// ListTasksRequest is the request for listing tasks.
type ListTasksRequest struct {
	PrincipalParams
	Priority  string `json:"priority,omitempty"`
	Status    string `json:"status,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
}

// ListTasksResponse is the response containing a list of tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// CreateTaskRequest is the request for creating a task. It carries no
// owner field: the owner is always the requesting principal.
type CreateTaskRequest struct {
	PrincipalParams
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	ProjectID   string `json:"project_id"`
}

// GetTaskRequest is the request for reading a single task.
type GetTaskRequest struct {
	PrincipalParams
	ID string `json:"id"`
}

// UpdateTaskRequest is the request for editing a task. Every mutable
// field must be supplied; the update is a wholesale overwrite.
type UpdateTaskRequest struct {
	PrincipalParams
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	ProjectID   string `json:"project_id"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	PrincipalParams
	ID string `json:"id"`
}

// DeleteTaskResponse is the response after deleting a task.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// TaskResponse represents a task in responses.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	ProjectID   string    `json:"project_id"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
