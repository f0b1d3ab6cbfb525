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

// SessionHandler exposes the group-session ledger endpoints.
type SessionHandler struct {
	sessionService *service.SessionService
	roles          middleware.RoleSource
}

func NewSessionHandler(sessionService *service.SessionService, roles middleware.RoleSource) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, roles: roles}
}

// Create handles POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreateSessionRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	rec, err := h.sessionService.Create(r.Context(), userID, &req)
	if err != nil {
		if isValidationError(err) {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		httputil.WriteInternalError(w, "Failed to create session record")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, rec)
}

// List handles GET /sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	// Facilitators may read any member's ledger via ?user_id=.
	target, err := listTarget(r, userID, h.roles, model.RoleFacilitator)
	if err != nil {
		switch {
		case errors.Is(err, errRoleForbidden):
			httputil.WriteForbidden(w, "Only facilitators may view other members' records")
		case isValidationError(err):
			httputil.WriteBadRequest(w, "Invalid user_id")
		default:
			httputil.WriteInternalError(w, "Failed to list session records")
		}
		return
	}

	cursor, limit := listParams(r)
	resp, err := h.sessionService.List(r.Context(), target, cursor, limit)
	if err != nil {
		if isValidationError(err) {
			httputil.WriteBadRequest(w, "Invalid cursor")
			return
		}
		httputil.WriteInternalError(w, "Failed to list session records")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Autofill handles GET /sessions/autofill
func (h *SessionHandler) Autofill(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	autofill, err := h.sessionService.Autofill(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to load autofill")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, autofill)
}

// Update handles PATCH /sessions/{id}
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid record ID")
		return
	}

	var req model.UpdateSessionRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	rec, err := h.sessionService.Update(r.Context(), id, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSessionRecordNotFound):
			httputil.WriteNotFound(w, "Session record not found")
		case isValidationError(err):
			httputil.WriteBadRequest(w, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to update session record")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid record ID")
		return
	}

	if err := h.sessionService.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, model.ErrSessionRecordNotFound) {
			httputil.WriteNotFound(w, "Session record not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to delete session record")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
