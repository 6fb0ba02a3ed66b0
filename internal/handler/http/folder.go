package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contactfaris48-art/fms-backend/internal/auth"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
	"github.com/contactfaris48-art/fms-backend/internal/service"
	"github.com/contactfaris48-art/fms-backend/internal/validator"
)

// FolderHandler handles HTTP requests for the folder hierarchy.
type FolderHandler struct {
	service *service.FolderService
	logger  *slog.Logger
}

// NewFolderHandler creates a new folder HTTP handler.
func NewFolderHandler(svc *service.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{service: svc, logger: logger}
}

// CreateFolderRequest is the JSON request body for folder creation.
type CreateFolderRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=255"`
	ParentID *string `json:"parent_id,omitempty"`
}

// List handles GET /api/v1/folders?parent_id=
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	if user == nil {
		writeAppError(w, r, apperrors.Unauthorized("not authenticated"), h.logger)
		return
	}

	var parentID *string
	if v := r.URL.Query().Get("parent_id"); v != "" {
		parentID = &v
	}

	folders, err := h.service.List(r.Context(), user.ID, parentID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: folders})
}

// Create handles POST /api/v1/folders
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	if user == nil {
		writeAppError(w, r, apperrors.Unauthorized("not authenticated"), h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	message, err := h.service.Create(r.Context(), user.ID, req.Name, req.ParentID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": message}})
}

// Delete handles DELETE /api/v1/folders/{id}
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	if user == nil {
		writeAppError(w, r, apperrors.Unauthorized("not authenticated"), h.logger)
		return
	}

	message, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": message}})
}
