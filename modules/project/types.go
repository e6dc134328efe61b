package project

import (
	"time"
)

// CreateProjectRequest is the request for creating a project. Only
// Admin principals are allowed to create projects.
type CreateProjectRequest struct {
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetProjectRequest is the request for reading a single project.
type GetProjectRequest struct {
	ID string `json:"id"`
}

// ListProjectsRequest is the request for listing projects.
type ListProjectsRequest struct{}

// ListProjectsResponse is the response containing a list of projects.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int               `json:"total"`
}

// ProjectResponse represents a project in responses.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
