package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	Base
	Title        string     `gorm:"not null" json:"title"`
	Description  string     `gorm:"not null" json:"description"`
	ProjectID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"project_id"`
	AssignedToID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	CreatedByID  uuid.UUID  `gorm:"type:uuid;not null" json:"created_by_id"`
	Status       TaskStatus `gorm:"not null;index;default:'todo'" json:"status"`
	Priority     Priority   `gorm:"not null;default:'medium'" json:"priority"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Tags         []string   `gorm:"serializer:json" json:"tags"`

	// Relationships
	Project     *Project     `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedTo  *User        `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CreatedBy   *User        `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Comments    []Comment    `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

// Comment rows are append-only: a comment is never edited or removed
// while its task exists, and appending is a single INSERT so concurrent
// posts cannot overwrite one another.
type Comment struct {
	Base
	TaskID   uuid.UUID `gorm:"type:uuid;index;not null" json:"task_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Text     string    `gorm:"not null" json:"text"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Comment) TableName() string {
	return "task_comments"
}

// Attachment metadata travels with its task and is deleted with it.
// No API surface writes attachments yet.
type Attachment struct {
	Base
	TaskID     uuid.UUID `gorm:"type:uuid;index;not null" json:"task_id"`
	Name       string    `gorm:"not null" json:"name"`
	URL        string    `gorm:"not null" json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func (Attachment) TableName() string {
	return "task_attachments"
}
