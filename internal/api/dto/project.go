package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugh/taskflow/internal/api/validation"
	"github.com/hugh/taskflow/internal/database/models"
)

type CreateProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Members     []string   `json:"members"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Color       string     `json:"color"`
}

func (r CreateProjectRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Description == "" {
		errors["description"] = "Description is required"
	}
	if r.Status != "" && !models.ValidProjectStatus(r.Status) {
		errors["status"] = "Invalid project status"
	}
	if r.Priority != "" && !models.ValidPriority(r.Priority) {
		errors["priority"] = "Invalid priority"
	}
	if r.Color != "" && !validation.IsValidHexColor(r.Color) {
		errors["color"] = "Color must be a hex value"
	}
	for _, id := range r.Members {
		if !validation.IsValidUUID(id) {
			errors["members"] = "Invalid member ID"
			break
		}
	}

	return errors
}

// UpdateProjectRequest uses pointers so an absent field can be told
// apart from a present one. Members is the only field where a present
// empty list means "clear".
type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Members     *[]string  `json:"members"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Color       *string    `json:"color"`
}

func (r UpdateProjectRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Status != nil && *r.Status != "" && !models.ValidProjectStatus(*r.Status) {
		errors["status"] = "Invalid project status"
	}
	if r.Priority != nil && *r.Priority != "" && !models.ValidPriority(*r.Priority) {
		errors["priority"] = "Invalid priority"
	}
	if r.Color != nil && *r.Color != "" && !validation.IsValidHexColor(*r.Color) {
		errors["color"] = "Color must be a hex value"
	}
	if r.Members != nil {
		for _, id := range *r.Members {
			if !validation.IsValidUUID(id) {
				errors["members"] = "Invalid member ID"
				break
			}
		}
	}

	return errors
}

type ProjectResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Owner       UserSummary   `json:"owner"`
	Members     []UserSummary `json:"members"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Color       string        `json:"color"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func ProjectToResponse(p *models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Members:     make([]UserSummary, 0, len(p.Members)),
		Status:      string(p.Status),
		Priority:    string(p.Priority),
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Color:       p.Color,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Owner != nil {
		resp.Owner = UserToSummary(p.Owner)
	}
	for i := range p.Members {
		resp.Members = append(resp.Members, UserToSummary(&p.Members[i]))
	}
	return resp
}

// MemberIDs converts pre-validated member id strings.
func MemberIDs(ids []string) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		out[i], _ = uuid.Parse(id)
	}
	return out
}
