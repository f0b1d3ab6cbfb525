package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"steadypath/internal/model"
	"steadypath/internal/transport/http/middleware"
)

// errRoleForbidden marks a cross-user read attempted without the right role.
var errRoleForbidden = errors.New("role not allowed")

// isValidationError reports whether err is a user-correctable request error.
func isValidationError(err error) bool {
	return errors.Is(err, model.ErrInvalidInput)
}

// listTarget resolves whose records a list request is for. Callers read their
// own records by default; a ?user_id= override requires one of the allowed
// roles.
func listTarget(r *http.Request, callerID int64, roles middleware.RoleSource, allowed ...string) (int64, error) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return callerID, nil
	}
	target, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || target <= 0 {
		return 0, fmt.Errorf("%w: invalid user_id", model.ErrInvalidInput)
	}
	if target == callerID {
		return callerID, nil
	}
	role, err := roles.GetRole(r.Context(), callerID)
	if err != nil {
		return 0, fmt.Errorf("look up caller role: %w", err)
	}
	for _, a := range allowed {
		if role == a {
			return target, nil
		}
	}
	return 0, errRoleForbidden
}

// parseIDParam reads a positive int64 URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// listParams reads the cursor and limit query parameters common to the
// paginated list endpoints.
func listParams(r *http.Request) (cursor *string, limit int) {
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil {
			limit = n
		}
	}
	return cursor, limit
}
