package models

import (
	"time"

	"taskflow.dev/taskflow/internal/constants"
)

type Project struct {
	ID          uint                    `gorm:"primaryKey" json:"id"`
	Title       string                  `gorm:"size:100;not null" json:"title"`
	Description string                  `json:"description"`
	Status      constants.ProjectStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
	Members     []ProjectMember         `json:"members,omitempty"`
}

// ProjectMember links a user to a project with a role. The composite unique
// index guarantees at most one membership per (project, user) pair.
type ProjectMember struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProjectID uint           `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	UserID    uint           `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	Role      constants.Role `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt  time.Time      `json:"joined_at"`
}

func (ProjectMember) TableName() string { return "project_members" }
