package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/taskflow/internal/api/dto"
	"github.com/hugh/taskflow/internal/api/middleware"
	"github.com/hugh/taskflow/internal/api/validation"
	"github.com/hugh/taskflow/internal/projects"
)

type ProjectHandler struct {
	service *projects.Service
}

func NewProjectHandler(service *projects.Service) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// List handles GET /api/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeProjectError(w, err)
		return
	}

	out := make([]dto.ProjectResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.ProjectToResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req dto.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Validation failed", Details: errs})
		return
	}

	project, err := h.service.Create(r.Context(), userID, projects.CreateInput{
		Name:        validation.SanitizeString(req.Name),
		Description: validation.SanitizeString(req.Description),
		MemberIDs:   dto.MemberIDs(req.Members),
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Color:       req.Color,
	})
	if err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProjectToResponse(project))
}

// Get handles GET /api/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	projectID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.service.Get(r.Context(), userID, projectID)
	if err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectToResponse(project))
}

// Update handles PUT /api/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	projectID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Validation failed", Details: errs})
		return
	}

	input := projects.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Color:       req.Color,
	}
	if req.Members != nil {
		ids := dto.MemberIDs(*req.Members)
		input.MemberIDs = &ids
	}

	project, err := h.service.Update(r.Context(), userID, projectID, input)
	if err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectToResponse(project))
}

// Delete handles DELETE /api/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	projectID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, projectID); err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Project and associated tasks removed"})
}

// Stats handles GET /api/projects/{id}/stats
func (h *ProjectHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	projectID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), userID, projectID)
	if err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// parseID reads a UUID path parameter, answering 400 on malformed ids
// before any lookup happens.
func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}

func writeProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, projects.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Message: "Project not found"})
	case errors.Is(err, projects.ErrNoAccess), errors.Is(err, projects.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, projects.ErrValidation):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Message: "Something went wrong"})
	}
}
