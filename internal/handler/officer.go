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

// OfficerHandler exposes the officer contact log endpoints.
type OfficerHandler struct {
	officerLogService *service.OfficerLogService
	roles             middleware.RoleSource
}

func NewOfficerHandler(officerLogService *service.OfficerLogService, roles middleware.RoleSource) *OfficerHandler {
	return &OfficerHandler{officerLogService: officerLogService, roles: roles}
}

// Create handles POST /officer-contacts
func (h *OfficerHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreateOfficerContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	contact, err := h.officerLogService.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidContactMethod):
			httputil.WriteBadRequest(w, "Method must be office, phone, field, or court")
		case isValidationError(err):
			httputil.WriteBadRequest(w, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to create officer contact")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, contact)
}

// List handles GET /officer-contacts
func (h *OfficerHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	// Officers may read any client's contact log via ?user_id=.
	target, err := listTarget(r, userID, h.roles, model.RoleOfficer)
	if err != nil {
		switch {
		case errors.Is(err, errRoleForbidden):
			httputil.WriteForbidden(w, "Only officers may view other clients' logs")
		case isValidationError(err):
			httputil.WriteBadRequest(w, "Invalid user_id")
		default:
			httputil.WriteInternalError(w, "Failed to list officer contacts")
		}
		return
	}

	cursor, limit := listParams(r)
	contacts, nextCursor, err := h.officerLogService.List(r.Context(), target, cursor, limit)
	if err != nil {
		if isValidationError(err) {
			httputil.WriteBadRequest(w, "Invalid cursor")
			return
		}
		httputil.WriteInternalError(w, "Failed to list officer contacts")
		return
	}

	resp := map[string]interface{}{"contacts": contacts}
	if nextCursor != nil {
		resp["next_cursor"] = *nextCursor
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Update handles PATCH /officer-contacts/{id}
func (h *OfficerHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid contact ID")
		return
	}

	var req model.UpdateOfficerContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	contact, err := h.officerLogService.Update(r.Context(), id, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrOfficerContactNotFound):
			httputil.WriteNotFound(w, "Officer contact not found")
		case errors.Is(err, model.ErrInvalidContactMethod):
			httputil.WriteBadRequest(w, "Method must be office, phone, field, or court")
		case isValidationError(err):
			httputil.WriteBadRequest(w, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to update officer contact")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, contact)
}

// Delete handles DELETE /officer-contacts/{id}
func (h *OfficerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid contact ID")
		return
	}

	if err := h.officerLogService.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, model.ErrOfficerContactNotFound) {
			httputil.WriteNotFound(w, "Officer contact not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to delete officer contact")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
