package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugh/taskflow/internal/database/models"
)

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Project     string     `json:"project"`
	AssignedTo  string     `json:"assigned_to"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
}

func (r CreateTaskRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.Description == "" {
		errors["description"] = "Description is required"
	}
	if r.Project == "" {
		errors["project"] = "Project is required"
	} else if _, err := uuid.Parse(r.Project); err != nil {
		errors["project"] = "Invalid project ID"
	}
	if r.AssignedTo != "" {
		if _, err := uuid.Parse(r.AssignedTo); err != nil {
			errors["assigned_to"] = "Invalid assignee ID"
		}
	}
	if r.Status != "" && !models.ValidTaskStatus(r.Status) {
		errors["status"] = "Invalid task status"
	}
	if r.Priority != "" && !models.ValidPriority(r.Priority) {
		errors["priority"] = "Invalid priority"
	}

	return errors
}

// UpdateTaskRequest uses pointers so an absent field can be told apart
// from a present one. An empty assigned_to clears the assignment; a
// present tags list (even empty) replaces the stored tags.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assigned_to"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Tags        *[]string  `json:"tags"`
}

func (r UpdateTaskRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.AssignedTo != nil && *r.AssignedTo != "" {
		if _, err := uuid.Parse(*r.AssignedTo); err != nil {
			errors["assigned_to"] = "Invalid assignee ID"
		}
	}
	if r.Status != nil && *r.Status != "" && !models.ValidTaskStatus(*r.Status) {
		errors["status"] = "Invalid task status"
	}
	if r.Priority != nil && *r.Priority != "" && !models.ValidPriority(*r.Priority) {
		errors["priority"] = "Invalid priority"
	}

	return errors
}

type AddCommentRequest struct {
	Text string `json:"text"`
}

func (r AddCommentRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Text == "" {
		errors["text"] = "Comment text is required"
	}

	return errors
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateTaskStatusRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Status == "" {
		errors["status"] = "Status is required"
	} else if !models.ValidTaskStatus(r.Status) {
		errors["status"] = "Invalid task status"
	}

	return errors
}

// ProjectRef is the compact parent-project summary carried by task
// responses.
type ProjectRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CommentResponse struct {
	ID        string      `json:"id"`
	Author    UserSummary `json:"author"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

type AttachmentResponse struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type TaskResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Project     ProjectRef           `json:"project"`
	AssignedTo  *UserSummary         `json:"assigned_to,omitempty"`
	CreatedBy   UserSummary          `json:"created_by"`
	Status      string               `json:"status"`
	Priority    string               `json:"priority"`
	DueDate     *time.Time           `json:"due_date,omitempty"`
	Tags        []string             `json:"tags"`
	Comments    []CommentResponse    `json:"comments"`
	Attachments []AttachmentResponse `json:"attachments,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func TaskToResponse(t *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Tags:        t.Tags,
		Comments:    make([]CommentResponse, 0, len(t.Comments)),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if t.Project != nil {
		resp.Project = ProjectRef{
			ID:    t.Project.ID.String(),
			Name:  t.Project.Name,
			Color: t.Project.Color,
		}
	}
	if t.AssignedTo != nil {
		summary := UserToSummary(t.AssignedTo)
		resp.AssignedTo = &summary
	}
	if t.CreatedBy != nil {
		resp.CreatedBy = UserToSummary(t.CreatedBy)
	}
	for i := range t.Comments {
		c := &t.Comments[i]
		cr := CommentResponse{
			ID:        c.ID.String(),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		}
		if c.Author != nil {
			cr.Author = UserToSummary(c.Author)
		}
		resp.Comments = append(resp.Comments, cr)
	}
	for _, a := range t.Attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			Name:       a.Name,
			URL:        a.URL,
			UploadedAt: a.UploadedAt,
		})
	}
	return resp
}
