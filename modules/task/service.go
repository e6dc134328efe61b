package task

import (
	"context"
	"errors"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
	"github.com/google/uuid"
)

var (
	// ErrUnauthorized is returned when the principal is neither the
	// task's owner nor an Admin.
	ErrUnauthorized = errors.New("not allowed to access this task")
	// ErrTitleRequired is returned when the title is missing.
	ErrTitleRequired = errors.New("title is required")
	// ErrProjectRequired is returned when the project id is missing.
	ErrProjectRequired = errors.New("project is required")
	// ErrInvalidPriority is returned for a priority outside the closed set.
	ErrInvalidPriority = errors.New("priority must be one of: low, medium, high")
	// ErrInvalidStatus is returned for a status outside the closed set.
	ErrInvalidStatus = errors.New("status must be one of: todo, in_progress, done")
	// ErrInvalidDueDate is returned for a malformed due date.
	ErrInvalidDueDate = errors.New("due date must use the YYYY-MM-DD format")
)

// Fields carries the submitted task fields for create and edit. The
// owner and the id are deliberately absent: they are never accepted
// from input.
type Fields struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
	ProjectID   string
}

// Service applies the visibility and ownership rules over the task
// repository.
type Service struct {
	repo *Repository
}

// NewService creates a new task Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// List returns the tasks the principal is permitted to see, narrowed by
// the filter. Admins see every task; any other principal sees only
// tasks it owns.
func (s *Service) List(_ context.Context, p user.Principal, filter domain.Filter) ([]*domain.Task, error) {
	ownerScope := p.UserID
	if p.IsAdmin() {
		ownerScope = ""
	}
	return s.repo.FindAll(ownerScope, filter)
}

// Get returns a single task under the same ownership rule as edits.
func (s *Service) Get(_ context.Context, p user.Principal, id string) (*domain.Task, error) {
	task, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && task.OwnerID != p.UserID {
		return nil, ErrUnauthorized
	}
	return task, nil
}

// Create stores a new task owned by the principal. The owner is always
// the caller; input cannot name a different owner.
func (s *Service) Create(_ context.Context, p user.Principal, fields Fields) (*domain.Task, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       fields.Title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Priority:    domain.Priority(fields.Priority),
		Status:      domain.Status(fields.Status),
		ProjectID:   fields.ProjectID,
		OwnerID:     p.UserID,
	}

	if err := s.repo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update overwrites every mutable field of the task with the submitted
// values. The existence check runs before the ownership check, and the
// ownership check before any field is applied.
func (s *Service) Update(_ context.Context, p user.Principal, id string, fields Fields) (*domain.Task, error) {
	task, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && task.OwnerID != p.UserID {
		return nil, ErrUnauthorized
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	task.Title = fields.Title
	task.Description = fields.Description
	task.DueDate = fields.DueDate
	task.Priority = domain.Priority(fields.Priority)
	task.Status = domain.Status(fields.Status)
	task.ProjectID = fields.ProjectID

	if err := s.repo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task permanently. Missing tasks report ErrNotFound
// before the ownership rule is evaluated.
func (s *Service) Delete(_ context.Context, p user.Principal, id string) error {
	task, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if !p.IsAdmin() && task.OwnerID != p.UserID {
		return ErrUnauthorized
	}
	return s.repo.Delete(id)
}

// validateFields checks the submitted values against the closed
// enumerations. Create and edit share it so the accepted sets cannot
// drift apart.
func validateFields(fields Fields) error {
	if fields.Title == "" {
		return ErrTitleRequired
	}
	if fields.ProjectID == "" {
		return ErrProjectRequired
	}
	if !domain.Priority(fields.Priority).Valid() {
		return ErrInvalidPriority
	}
	if !domain.Status(fields.Status).Valid() {
		return ErrInvalidStatus
	}
	if _, err := time.Parse(domain.DueDateLayout, fields.DueDate); err != nil {
		return ErrInvalidDueDate
	}
	return nil
}
