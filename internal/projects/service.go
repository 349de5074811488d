package projects

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/taskflow/internal/database/models"
	"gorm.io/gorm"
)

// Service owns the project aggregate: membership, lifecycle status and
// the access predicate that gates every project- and task-scoped
// operation. Callers pass their resolved identity explicitly; the
// service never reads it from ambient state.
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CanAccess reports whether the user may read the project and mutate
// its tasks: true iff the user owns the project or is a member. The
// project must have Members loaded.
func CanAccess(userID uuid.UUID, p *models.Project) bool {
	if p.OwnerID == userID {
		return true
	}
	for _, m := range p.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// IsOwner reports whether the user holds the owner relation. Project
// update and delete are owner-only; membership is not enough.
func IsOwner(userID uuid.UUID, p *models.Project) bool {
	return p.OwnerID == userID
}

type CreateInput struct {
	Name        string
	Description string
	MemberIDs   []uuid.UUID
	Status      string
	Priority    string
	StartDate   *time.Time
	EndDate     *time.Time
	Color       string
}

// UpdateInput follows the replace-if-defined merge policy: nil (or an
// empty string for the text and enum fields) keeps the stored value.
// MemberIDs is the exception: any non-nil slice, including an empty
// one, replaces the membership list outright.
type UpdateInput struct {
	Name        *string
	Description *string
	MemberIDs   *[]uuid.UUID
	Status      *string
	Priority    *string
	StartDate   *time.Time
	EndDate     *time.Time
	Color       *string
}

// List returns every project the user owns or belongs to, newest first,
// with owner and members hydrated.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	memberOf := s.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	var list []models.Project
	if err := s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members").
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return list, nil
}

// Create stores a new project owned by the caller. The owner is never
// client-supplied.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if input.Status != "" && !models.ValidProjectStatus(input.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, input.Status)
	}
	if input.Priority != "" && !models.ValidPriority(input.Priority) {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, input.Priority)
	}

	members, err := s.resolveMembers(ctx, input.MemberIDs)
	if err != nil {
		return nil, err
	}

	project := models.Project{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		OwnerID:     ownerID,
		Status:      models.ProjectStatusPlanning,
		Priority:    models.PriorityMedium,
		StartDate:   time.Now(),
		EndDate:     input.EndDate,
		Color:       "#6366f1",
		Members:     members,
	}
	if input.Status != "" {
		project.Status = models.ProjectStatus(input.Status)
	}
	if input.Priority != "" {
		project.Priority = models.Priority(input.Priority)
	}
	if input.StartDate != nil && !input.StartDate.IsZero() {
		project.StartDate = *input.StartDate
	}
	if input.Color != "" {
		project.Color = input.Color
	}

	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("created project", "id", project.ID, "owner", ownerID)

	return s.load(ctx, project.ID)
}

// Get returns the hydrated project. Existence is checked before
// authorization so a missing id is 404, not 403.
func (s *Service) Get(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(userID, project) {
		return nil, ErrNoAccess
	}
	return project, nil
}

// Update applies the per-field merge policy. Owner-only.
func (s *Service) Update(ctx context.Context, userID, projectID uuid.UUID, input UpdateInput) (*models.Project, error) {
	project, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(userID, project) {
		return nil, ErrNotOwner
	}

	updates := map[string]interface{}{}
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil && *input.Description != "" {
		updates["description"] = *input.Description
	}
	if input.Status != nil && *input.Status != "" {
		if !models.ValidProjectStatus(*input.Status) {
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
	if input.StartDate != nil && !input.StartDate.IsZero() {
		updates["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		updates["end_date"] = *input.EndDate
	}
	if input.Color != nil && *input.Color != "" {
		updates["color"] = *input.Color
	}

	// Resolve the new member list before writing anything so a bad id
	// rejects the whole request, not just the membership change.
	var members []models.User
	if input.MemberIDs != nil {
		var err error
		members, err = s.resolveMembers(ctx, *input.MemberIDs)
		if err != nil {
			return nil, err
		}
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("updating project: %w", err)
		}
	}

	if input.MemberIDs != nil {
		if err := s.db.WithContext(ctx).Model(project).Association("Members").Replace(members); err != nil {
			return nil, fmt.Errorf("replacing members: %w", err)
		}
	}

	return s.load(ctx, projectID)
}

// Delete removes the project and everything it owns. Owner-only. The
// cascade runs child-first (comments, attachments, tasks, membership,
// then the project) so a partial failure can never leave orphaned
// tasks; it is not transactional and reports the first error without
// rolling back earlier steps.
func (s *Service) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	project, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}
	if !IsOwner(userID, project) {
		return ErrNotOwner
	}

	db := s.db.WithContext(ctx)
	taskIDs := db.Model(&models.Task{}).Select("id").Where("project_id = ?", projectID)

	if err := db.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("deleting task comments: %w", err)
	}
	if err := db.Where("task_id IN (?)", taskIDs).Delete(&models.Attachment{}).Error; err != nil {
		return fmt.Errorf("deleting task attachments: %w", err)
	}
	if err := db.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
		return fmt.Errorf("deleting tasks: %w", err)
	}
	if err := db.Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error; err != nil {
		return fmt.Errorf("deleting memberships: %w", err)
	}
	if err := db.Delete(&models.Project{}, "id = ?", projectID).Error; err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	s.logger.Info("deleted project", "id", projectID, "owner", userID)
	return nil
}

// Stats aggregates the project's task collection. Owner or member.
func (s *Service) Stats(ctx context.Context, userID, projectID uuid.UUID) (*Stats, error) {
	project, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(userID, project) {
		return nil, ErrNoAccess
	}

	var tasks []models.Task
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("loading tasks for stats: %w", err)
	}

	stats := ComputeStats(tasks, time.Now())
	return &stats, nil
}

// load fetches a project with owner and members hydrated, mapping a
// missing row to ErrNotFound.
func (s *Service) load(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members").
		First(&project, "id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return &project, nil
}

// resolveMembers loads the referenced users, rejecting ids that do not
// resolve so membership never points at nonexistent users. Duplicate
// ids collapse to a single membership.
func (s *Service) resolveMembers(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if len(unique) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", unique).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("resolving members: %w", err)
	}
	if len(users) != len(unique) {
		return nil, fmt.Errorf("%w: one or more members not found", ErrValidation)
	}
	return users, nil
}
