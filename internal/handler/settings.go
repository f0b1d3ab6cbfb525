package handler

import (
	"encoding/json"
	"net/http"

	"steadypath/internal/httputil"
	"steadypath/internal/model"
	"steadypath/internal/service"
	"steadypath/internal/transport/http/middleware"
)

// SettingsHandler exposes the reminder preference form.
type SettingsHandler struct {
	reminderSettings *service.ReminderSettingsService
}

func NewSettingsHandler(reminderSettings *service.ReminderSettingsService) *SettingsHandler {
	return &SettingsHandler{reminderSettings: reminderSettings}
}

// GetReminders handles GET /settings/reminders
func (h *SettingsHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	pref, err := h.reminderSettings.Get(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to load reminder settings")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pref)
}

// UpdateReminders handles PUT /settings/reminders
func (h *SettingsHandler) UpdateReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.UpdateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	pref, err := h.reminderSettings.Update(r.Context(), userID, &req)
	if err != nil {
		if isValidationError(err) {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		httputil.WriteInternalError(w, "Failed to save reminder settings")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pref)
}
