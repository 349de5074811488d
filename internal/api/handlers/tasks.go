package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/hugh/taskflow/internal/api/dto"
	"github.com/hugh/taskflow/internal/api/middleware"
	"github.com/hugh/taskflow/internal/api/validation"
	"github.com/hugh/taskflow/internal/database/models"
	"github.com/hugh/taskflow/internal/tasks"
)

type TaskHandler struct {
	service *tasks.Service
}

func NewTaskHandler(service *tasks.Service) *TaskHandler {
	return &TaskHandler{service: service}
}

// ListByProject handles GET /api/tasks/project/{projectId}
func (h *TaskHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	projectID, ok := parseID(w, r, "projectId")
	if !ok {
		return
	}

	list, err := h.service.ListByProject(r.Context(), userID, projectID)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, taskListResponse(list))
}

// ListMine handles GET /api/tasks/my-tasks
func (h *TaskHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	list, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, taskListResponse(list))
}

// Get handles GET /api/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	taskID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), userID, taskID)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TaskToResponse(task))
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Validation failed", Details: errs})
		return
	}

	projectID, _ := uuid.Parse(req.Project)
	input := tasks.CreateInput{
		Title:       validation.SanitizeString(req.Title),
		Description: validation.SanitizeString(req.Description),
		ProjectID:   projectID,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}
	if req.AssignedTo != "" {
		assignee, _ := uuid.Parse(req.AssignedTo)
		input.AssignedTo = &assignee
	}

	task, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TaskToResponse(task))
}

// Update handles PUT /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	taskID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Validation failed", Details: errs})
		return
	}

	input := tasks.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}
	if req.AssignedTo != nil {
		var assignee *uuid.UUID
		if *req.AssignedTo != "" {
			id, _ := uuid.Parse(*req.AssignedTo)
			assignee = &id
		}
		input.AssignedTo = &assignee
	}

	task, err := h.service.Update(r.Context(), userID, taskID, input)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TaskToResponse(task))
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	taskID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, taskID); err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Task removed"})
}

// AddComment handles POST /api/tasks/{id}/comments
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	taskID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req dto.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Validation failed", Details: errs})
		return
	}

	task, err := h.service.AddComment(r.Context(), userID, taskID, validation.SanitizeString(req.Text))
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TaskToResponse(task))
}

// UpdateStatus handles PATCH /api/tasks/{id}/status
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	taskID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Validation failed", Details: errs})
		return
	}

	task, err := h.service.UpdateStatus(r.Context(), userID, taskID, req.Status)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TaskToResponse(task))
}

func taskListResponse(list []models.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.TaskToResponse(&list[i]))
	}
	return out
}

func writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Message: "Task not found"})
	case errors.Is(err, tasks.ErrProjectNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Message: "Project not found"})
	case errors.Is(err, tasks.ErrNoAccess):
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, tasks.ErrValidation):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Message: "Something went wrong"})
	}
}
