package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"steadypath/internal/httputil"
	"steadypath/internal/model"
	"steadypath/internal/service"
	"steadypath/internal/transport/http/middleware"
)

// AssignmentHandler exposes the syllabus endpoints. Creation and deletion are
// facilitator-only (guarded at the router); completion belongs to the client.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// Create handles POST /assignments
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	a, err := h.assignmentService.Create(r.Context(), userID, &req)
	if err != nil {
		if isValidationError(err) {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		httputil.WriteInternalError(w, "Failed to create assignment")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, a)
}

// List handles GET /assignments
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	assignments, err := h.assignmentService.ListForUser(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to list assignments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"assignments": assignments})
}

// MarkComplete handles POST /assignments/{id}/complete
func (h *AssignmentHandler) MarkComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid assignment ID")
		return
	}

	if err := h.assignmentService.MarkComplete(r.Context(), id, userID); err != nil {
		if errors.Is(err, model.ErrAssignmentNotFound) {
			httputil.WriteNotFound(w, "Assignment not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to mark assignment complete")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Assignment marked complete"})
}

// UnmarkComplete handles DELETE /assignments/{id}/complete
func (h *AssignmentHandler) UnmarkComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid assignment ID")
		return
	}

	if err := h.assignmentService.UnmarkComplete(r.Context(), id, userID); err != nil {
		if errors.Is(err, model.ErrAssignmentNotFound) {
			httputil.WriteNotFound(w, "Assignment not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to unmark assignment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /assignments/{id}
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid assignment ID")
		return
	}

	if err := h.assignmentService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrAssignmentNotFound) {
			httputil.WriteNotFound(w, "Assignment not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to delete assignment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
