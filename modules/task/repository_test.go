package task

import (
	"testing"

	projectdomain "github.com/example/task-tracker/domain/project"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing. The
// projects table is migrated too because tasks reference it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&projectdomain.Project{}, &domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedProject inserts a project row and returns its id.
func seedProject(t *testing.T, db *gorm.DB) string {
	t.Helper()

	p := &projectdomain.Project{
		ID:   uuid.New().String(),
		Name: "Test Project",
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return p.ID
}

// seedTask inserts a task row with the given owner and returns it.
func seedTask(t *testing.T, db *gorm.DB, ownerID, projectID string, priority domain.Priority, status domain.Status) *domain.Task {
	t.Helper()

	task := &domain.Task{
		ID:        uuid.New().String(),
		Title:     "Test Task",
		DueDate:   "2026-09-01",
		Priority:  priority,
		Status:    status,
		ProjectID: projectID,
		OwnerID:   ownerID,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

func TestRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	projectID := seedProject(t, db)

	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       "Write report",
		Description: "Quarterly report",
		DueDate:     "2026-09-15",
		Priority:    domain.PriorityHigh,
		Status:      domain.StatusTodo,
		ProjectID:   projectID,
		OwnerID:     uuid.New().String(),
	}

	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var found domain.Task
	if err := db.First(&found, "id = ?", task.ID).Error; err != nil {
		t.Fatalf("failed to find created task: %v", err)
	}
	if found.Title != task.Title {
		t.Errorf("expected title %q, got %q", task.Title, found.Title)
	}
	if found.OwnerID != task.OwnerID {
		t.Errorf("expected owner %q, got %q", task.OwnerID, found.OwnerID)
	}
}

func TestRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	projectID := seedProject(t, db)
	task := seedTask(t, db, uuid.New().String(), projectID, domain.PriorityLow, domain.StatusTodo)

	t.Run("existing task", func(t *testing.T) {
		found, err := repo.FindByID(task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.ID != task.ID {
			t.Errorf("expected ID %q, got %q", task.ID, found.ID)
		}
	})

	t.Run("non-existent task", func(t *testing.T) {
		_, err := repo.FindByID("non-existent-id")
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepository_FindAll_OwnerScope(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	projectID := seedProject(t, db)

	ownerA := uuid.New().String()
	ownerB := uuid.New().String()
	seedTask(t, db, ownerA, projectID, domain.PriorityLow, domain.StatusTodo)
	seedTask(t, db, ownerA, projectID, domain.PriorityHigh, domain.StatusDone)
	seedTask(t, db, ownerB, projectID, domain.PriorityLow, domain.StatusTodo)

	t.Run("unscoped returns everything", func(t *testing.T) {
		tasks, err := repo.FindAll("", domain.Filter{})
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(tasks) != 3 {
			t.Errorf("expected 3 tasks, got %d", len(tasks))
		}
	})

	t.Run("scoped returns only the owner's tasks", func(t *testing.T) {
		tasks, err := repo.FindAll(ownerA, domain.Filter{})
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(tasks) != 2 {
			t.Errorf("expected 2 tasks, got %d", len(tasks))
		}
		for _, task := range tasks {
			if task.OwnerID != ownerA {
				t.Errorf("expected owner %q, got %q", ownerA, task.OwnerID)
			}
		}
	})
}

func TestRepository_FindAll_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	projectA := seedProject(t, db)
	projectB := seedProject(t, db)
	owner := uuid.New().String()

	seedTask(t, db, owner, projectA, domain.PriorityHigh, domain.StatusTodo)
	seedTask(t, db, owner, projectA, domain.PriorityHigh, domain.StatusDone)
	seedTask(t, db, owner, projectB, domain.PriorityLow, domain.StatusTodo)

	t.Run("single filter", func(t *testing.T) {
		tasks, err := repo.FindAll("", domain.Filter{Priority: "high"})
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(tasks) != 2 {
			t.Errorf("expected 2 tasks, got %d", len(tasks))
		}
	})

	t.Run("filters combine conjunctively", func(t *testing.T) {
		tasks, err := repo.FindAll("", domain.Filter{
			Priority:  "high",
			Status:    "todo",
			ProjectID: projectA,
		})
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(tasks) != 1 {
			t.Errorf("expected 1 task, got %d", len(tasks))
		}
	})

	t.Run("no match yields empty set", func(t *testing.T) {
		tasks, err := repo.FindAll("", domain.Filter{Priority: "high", ProjectID: projectB})
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("expected 0 tasks, got %d", len(tasks))
		}
	})
}

func TestRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	projectID := seedProject(t, db)
	task := seedTask(t, db, uuid.New().String(), projectID, domain.PriorityLow, domain.StatusTodo)

	t.Run("overwrites fields wholesale", func(t *testing.T) {
		task.Title = "Renamed"
		task.Description = ""
		task.Priority = domain.PriorityMedium
		task.Status = domain.StatusInProgress

		if err := repo.Update(task); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		var found domain.Task
		if err := db.First(&found, "id = ?", task.ID).Error; err != nil {
			t.Fatalf("failed to find updated task: %v", err)
		}
		if found.Title != "Renamed" {
			t.Errorf("expected title %q, got %q", "Renamed", found.Title)
		}
		if found.Description != "" {
			t.Errorf("expected empty description, got %q", found.Description)
		}
		if found.Status != domain.StatusInProgress {
			t.Errorf("expected status %q, got %q", domain.StatusInProgress, found.Status)
		}
	})

	t.Run("non-existent task", func(t *testing.T) {
		missing := &domain.Task{ID: "non-existent-id", Title: "x"}
		if err := repo.Update(missing); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	projectID := seedProject(t, db)
	task := seedTask(t, db, uuid.New().String(), projectID, domain.PriorityLow, domain.StatusTodo)

	t.Run("delete is permanent", func(t *testing.T) {
		if err := repo.Delete(task.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		// No soft delete: the row must be gone entirely.
		var count int64
		if err := db.Model(&domain.Task{}).Where("id = ?", task.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count tasks: %v", err)
		}
		if count != 0 {
			t.Errorf("expected 0 rows after delete, got %d", count)
		}
	})

	t.Run("delete non-existent task", func(t *testing.T) {
		if err := repo.Delete("non-existent-id"); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
