package project

import (
	"context"
	"errors"

	domain "github.com/example/task-tracker/domain/project"
	"github.com/example/task-tracker/domain/user"
	"github.com/google/uuid"
)

var (
	// ErrUnauthorized is returned when a non-Admin principal tries to
	// create a project.
	ErrUnauthorized = errors.New("only admins can create projects")
	// ErrNameRequired is returned when the project name is missing.
	ErrNameRequired = errors.New("name is required")
)

// Service applies the admin-only creation rule over the project
// repository.
type Service struct {
	repo *Repository
}

// NewService creates a new project Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new project. The Admin check runs before the input is
// looked at.
func (s *Service) Create(_ context.Context, p user.Principal, name, description string) (*domain.Project, error) {
	if !p.IsAdmin() {
		return nil, ErrUnauthorized
	}
	if name == "" {
		return nil, ErrNameRequired
	}

	project := &domain.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
	}
	if err := s.repo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Get returns a single project. Any authenticated principal may read
// projects.
func (s *Service) Get(_ context.Context, id string) (*domain.Project, error) {
	return s.repo.FindByID(id)
}

// List returns all projects.
func (s *Service) List(_ context.Context) ([]*domain.Project, error) {
	return s.repo.FindAll()
}
