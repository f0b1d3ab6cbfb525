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

// JournalHandler exposes the journal CRUD, autofill, and streak endpoints.
type JournalHandler struct {
	journalService *service.JournalService
}

func NewJournalHandler(journalService *service.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// Create handles POST /journal
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreateJournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	entry, err := h.journalService.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicateEntryDate):
			httputil.WriteConflict(w, "An entry for that date already exists")
		case isValidationError(err):
			httputil.WriteBadRequest(w, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to create entry")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, entry)
}

// List handles GET /journal
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	cursor, limit := listParams(r)
	resp, err := h.journalService.List(r.Context(), userID, cursor, limit)
	if err != nil {
		if isValidationError(err) {
			httputil.WriteBadRequest(w, "Invalid cursor")
			return
		}
		httputil.WriteInternalError(w, "Failed to list entries")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Get handles GET /journal/{id}
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid entry ID")
		return
	}

	entry, err := h.journalService.Get(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, model.ErrJournalEntryNotFound) {
			httputil.WriteNotFound(w, "Entry not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get entry")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, entry)
}

// Autofill handles GET /journal/autofill
func (h *JournalHandler) Autofill(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	autofill, err := h.journalService.Autofill(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to load autofill")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, autofill)
}

// Update handles PATCH /journal/{id}
func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid entry ID")
		return
	}

	var req model.UpdateJournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	entry, err := h.journalService.Update(r.Context(), id, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrJournalEntryNotFound):
			httputil.WriteNotFound(w, "Entry not found")
		case isValidationError(err):
			httputil.WriteBadRequest(w, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to update entry")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /journal/{id}
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid entry ID")
		return
	}

	if err := h.journalService.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, model.ErrJournalEntryNotFound) {
			httputil.WriteNotFound(w, "Entry not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to delete entry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
