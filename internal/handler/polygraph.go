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

// PolygraphHandler exposes the polygraph exam history endpoints.
type PolygraphHandler struct {
	polygraphService *service.PolygraphService
	mediaService     *service.MediaService
}

func NewPolygraphHandler(polygraphService *service.PolygraphService, mediaService *service.MediaService) *PolygraphHandler {
	return &PolygraphHandler{
		polygraphService: polygraphService,
		mediaService:     mediaService,
	}
}

// Create handles POST /polygraphs
func (h *PolygraphHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreatePolygraphExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	exam, err := h.polygraphService.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidPolygraphResult):
			httputil.WriteBadRequest(w, "Result must be pass, fail, or inconclusive")
		case isValidationError(err):
			httputil.WriteBadRequest(w, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to create polygraph exam")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, exam)
}

// List handles GET /polygraphs
func (h *PolygraphHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	exams, err := h.polygraphService.List(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to list polygraph exams")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"exams": exams})
}

// PresignReport handles POST /polygraphs/report/presign
func (h *PolygraphHandler) PresignReport(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.PresignReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.mediaService.PresignReportUpload(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUnsupportedType):
			httputil.WriteBadRequestWithCode(w, model.CodeUnsupportedType, "Reports must be PDF, JPEG, or PNG")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Report exceeds 20MB limit")
		default:
			httputil.WriteInternalError(w, "Failed to presign upload")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Update handles PATCH /polygraphs/{id}
func (h *PolygraphHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid exam ID")
		return
	}

	var req model.UpdatePolygraphExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	exam, err := h.polygraphService.Update(r.Context(), id, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPolygraphExamNotFound):
			httputil.WriteNotFound(w, "Polygraph exam not found")
		case errors.Is(err, model.ErrInvalidPolygraphResult):
			httputil.WriteBadRequest(w, "Result must be pass, fail, or inconclusive")
		case isValidationError(err):
			httputil.WriteBadRequest(w, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to update polygraph exam")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, exam)
}

// Delete handles DELETE /polygraphs/{id}
func (h *PolygraphHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid exam ID")
		return
	}

	if err := h.polygraphService.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, model.ErrPolygraphExamNotFound) {
			httputil.WriteNotFound(w, "Polygraph exam not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to delete polygraph exam")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
