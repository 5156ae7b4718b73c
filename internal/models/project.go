package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectPriority string

const (
	PriorityLow    ProjectPriority = "LOW"
	PriorityMedium ProjectPriority = "MEDIUM"
	PriorityHigh   ProjectPriority = "HIGH"
)

func (p ProjectPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

const ProjectStatusActive = 1

type Project struct {
	Model
	Name      string `gorm:"type:varchar(255);not null"`
	Address   string `gorm:"type:text"`
	StartDate *time.Time
	EndDate   *time.Time
	Budget    float64         `gorm:"not null;default:0"`
	Cost      float64         `gorm:"not null;default:0"`
	Priority  ProjectPriority `gorm:"type:varchar(20);not null;default:'MEDIUM'"`
	Status    int             `gorm:"not null;index"`
	UserID    *string         `gorm:"type:varchar(36)"`

	Assignees []ProjectAssignee `gorm:"foreignKey:ProjectID"`
}

// ProjectAssignee joins a user to a project and carries the totals derived
// from that user's attendance on the project.
type ProjectAssignee struct {
	ID         string  `gorm:"type:varchar(36);primaryKey"`
	ProjectID  string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_project_assignee"`
	Project    Project `gorm:"foreignKey:ProjectID"`
	UserID     string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_project_assignee"`
	User       User    `gorm:"foreignKey:UserID"`
	TotalHours float64 `gorm:"not null;default:0"`
	TotalCost  float64 `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (a *ProjectAssignee) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
