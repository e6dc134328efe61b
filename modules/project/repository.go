package project

import (
	"errors"
	"fmt"

	domain "github.com/example/task-tracker/domain/project"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a project is not found.
var ErrNotFound = errors.New("project not found")

// Repository provides access to project storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new project repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new project.
func (r *Repository) Create(project *domain.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// FindByID retrieves a project by its ID.
func (r *Repository) FindByID(id string) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return &project, nil
}

// FindAll retrieves all projects.
func (r *Repository) FindAll() ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := r.db.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}
	return projects, nil
}
