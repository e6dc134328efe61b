package project

import (
	"time"
)

// Project groups tasks. Projects are append-only from the application's
// perspective: no update or delete path exists.
type Project struct {
	ID          string `gorm:"primaryKey;type:text"`
	Name        string `gorm:"not null;type:text"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Project entity.
func (Project) TableName() string {
	return "projects"
}
