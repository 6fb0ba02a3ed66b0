package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contactfaris48-art/fms-backend/internal/auth"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
	"github.com/contactfaris48-art/fms-backend/internal/service"
)

// FileHandler handles HTTP requests for file metadata and transfers.
type FileHandler struct {
	service *service.FileService
	logger  *slog.Logger
}

// NewFileHandler creates a new file HTTP handler.
func NewFileHandler(svc *service.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{service: svc, logger: logger}
}

// List handles GET /api/v1/files?folder_id=
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	if user == nil {
		writeAppError(w, r, apperrors.Unauthorized("not authenticated"), h.logger)
		return
	}

	var folderID *string
	if v := r.URL.Query().Get("folder_id"); v != "" {
		folderID = &v
	}

	files, err := h.service.List(r.Context(), user.ID, folderID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: files})
}

// Upload handles POST /api/v1/files
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	if user == nil {
		writeAppError(w, r, apperrors.Unauthorized("not authenticated"), h.logger)
		return
	}

	var folderID *string
	if v := r.URL.Query().Get("folder_id"); v != "" {
		folderID = &v
	}

	message, err := h.service.Upload(r.Context(), user.ID, folderID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": message}})
}

// Download handles GET /api/v1/files/{id}/download
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	if user == nil {
		writeAppError(w, r, apperrors.Unauthorized("not authenticated"), h.logger)
		return
	}

	url, err := h.service.Download(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"download_url": url}})
}

// Delete handles DELETE /api/v1/files/{id}
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
