package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// ValidProjectStatus reports whether s is one of the closed project states.
func ValidProjectStatus(s string) bool {
	switch ProjectStatus(s) {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold,
		ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func ValidPriority(s string) bool {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Project struct {
	Base
	Name        string        `gorm:"not null" json:"name"`
	Description string        `gorm:"not null" json:"description"`
	OwnerID     uuid.UUID     `gorm:"type:uuid;index;not null" json:"owner_id"`
	Status      ProjectStatus `gorm:"not null;default:'planning'" json:"status"`
	Priority    Priority      `gorm:"not null;default:'medium'" json:"priority"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Color       string        `gorm:"default:'#6366f1'" json:"color"`

	// Relationships
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []User `gorm:"many2many:project_members" json:"members,omitempty"`
	Tasks   []Task `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Project) TableName() string {
	return "projects"
}

// ProjectMember is the join row behind Project.Members. Declared so
// migrations and the delete cascade can address the table directly.
type ProjectMember struct {
	ProjectID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}
