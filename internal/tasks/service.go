package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/taskflow/internal/database/models"
	"github.com/hugh/taskflow/internal/projects"
	"gorm.io/gorm"
)

// Service owns the task aggregate. Authorization is always evaluated
// against the task's parent project: read access there grants every
// task mutation, including delete. Existence is checked before
// authorization on every path.
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

type CreateInput struct {
	Title       string
	Description string
	ProjectID   uuid.UUID
	AssignedTo  *uuid.UUID
	Status      string
	Priority    string
	DueDate     *time.Time
	Tags        []string
}

// UpdateInput follows the same replace-if-defined merge policy as
// project updates. AssignedTo distinguishes three cases: an absent
// outer pointer keeps the assignment, a present-but-nil inner pointer
// clears it, and a present id reassigns. Tags replace whenever the
// slice is non-nil, even when empty.
type UpdateInput struct {
	Title       *string
	Description *string
	AssignedTo  **uuid.UUID
	Status      *string
	Priority    *string
	DueDate     *time.Time
	Tags        *[]string
}

// ListByProject returns the project's tasks newest first, hydrated for
// display (assignee, creator, comment authors).
func (s *Service) ListByProject(ctx context.Context, userID, projectID uuid.UUID) ([]models.Task, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !projects.CanAccess(userID, project) {
		return nil, ErrNoAccess
	}

	var list []models.Task
	if err := s.hydrated(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return list, nil
}

// ListMine returns every task assigned to the caller across all
// projects. No project access check: the caller is the assignee.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	var list []models.Task
	if err := s.hydrated(ctx).
		Where("assigned_to_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing assigned tasks: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, task.ProjectID); err != nil {
		return nil, err
	}
	return task, nil
}

// Create stores a task in the target project. createdBy is always the
// caller, never client-supplied.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if input.Status != "" && !models.ValidTaskStatus(input.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, input.Status)
	}
	if input.Priority != "" && !models.ValidPriority(input.Priority) {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, input.Priority)
	}

	if err := s.authorize(ctx, userID, input.ProjectID); err != nil {
		return nil, err
	}

	task := models.Task{
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		ProjectID:    input.ProjectID,
		AssignedToID: input.AssignedTo,
		CreatedByID:  userID,
		Status:       models.TaskStatusTodo,
		Priority:     models.PriorityMedium,
		DueDate:      input.DueDate,
		Tags:         []string{},
	}
	if input.Status != "" {
		task.Status = models.TaskStatus(input.Status)
	}
	if input.Priority != "" {
		task.Priority = models.Priority(input.Priority)
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("created task", "id", task.ID, "project", task.ProjectID, "creator", userID)

	return s.load(ctx, task.ID)
}

// Update applies the per-field merge policy. Owner or member of the
// parent project; the creator holds no special rights.
func (s *Service) Update(ctx context.Context, userID, taskID uuid.UUID, input UpdateInput) (*models.Task, error) {
	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, task.ProjectID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil && *input.Description != "" {
		updates["description"] = *input.Description
	}
	if input.Status != nil && *input.Status != "" {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *input.Status)
		}
		updates["status"] = *input.Status
	}
	if input.Priority != nil && *input.Priority != "" {
		if !models.ValidPriority(*input.Priority) {
			return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, *input.Priority)
		}
		updates["priority"] = *input.Priority
	}
	if input.AssignedTo != nil {
		updates["assigned_to_id"] = *input.AssignedTo
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}
	if input.Tags != nil {
		tags := *input.Tags
		if tags == nil {
			tags = []string{}
		}
		updates["tags"] = tags
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("updating task: %w", err)
		}
	}

	return s.load(ctx, taskID)
}

// UpdateStatus is the narrow drag-and-drop transition: status only,
// same authorization as a full update. Any status may move to any
// other; there is deliberately no transition graph.
func (s *Service) UpdateStatus(ctx context.Context, userID, taskID uuid.UUID, status string) (*models.Task, error) {
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", ErrValidation)
	}
	if !models.ValidTaskStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, task.ProjectID); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(task).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("updating task status: %w", err)
	}

	return s.load(ctx, taskID)
}

// Delete removes the task and its embedded comments and attachments.
// Owner or member of the parent project.
func (s *Service) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.load(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, userID, task.ProjectID); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	if err := db.Where("task_id = ?", taskID).Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("deleting comments: %w", err)
	}
	if err := db.Where("task_id = ?", taskID).Delete(&models.Attachment{}).Error; err != nil {
		return fmt.Errorf("deleting attachments: %w", err)
	}
	if err := db.Delete(&models.Task{}, "id = ?", taskID).Error; err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	s.logger.Info("deleted task", "id", taskID, "user", userID)
	return nil
}

// AddComment appends to the task's comment list. The append is a
// single row insert, never a read-modify-write of the whole list, so
// two concurrent posts both survive. Comments are immutable once
// posted.
func (s *Service) AddComment(ctx context.Context, userID, taskID uuid.UUID, text string) (*models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrValidation)
	}

	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, task.ProjectID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		TaskID:   taskID,
		AuthorID: userID,
		Text:     text,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("adding comment: %w", err)
	}

	return s.load(ctx, taskID)
}

// authorize loads the parent project and evaluates the access
// predicate against it, preserving the existence-before-authorization
// order.
func (s *Service) authorize(ctx context.Context, userID, projectID uuid.UUID) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !projects.CanAccess(userID, project) {
		return ErrNoAccess
	}
	return nil
}

func (s *Service) loadProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).
		Preload("Members").
		First(&project, "id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return &project, nil
}

func (s *Service) load(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := s.hydrated(ctx).First(&task, "id = ?", taskID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading task: %w", err)
	}
	return &task, nil
}

// hydrated attaches the denormalized relations every read path
// returns: parent project summary, assignee, creator and comment
// authors, with comments in arrival order.
func (s *Service) hydrated(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Project").
		Preload("AssignedTo").
		Preload("CreatedBy").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		Preload("Attachments")
}
