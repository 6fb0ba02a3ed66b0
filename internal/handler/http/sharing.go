package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contactfaris48-art/fms-backend/internal/auth"
	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
	"github.com/contactfaris48-art/fms-backend/internal/service"
)

// SharingHandler handles HTTP requests for share links.
type SharingHandler struct {
	service *service.SharingService
	logger  *slog.Logger
}

// NewSharingHandler creates a new sharing HTTP handler.
func NewSharingHandler(svc *service.SharingService, logger *slog.Logger) *SharingHandler {
	return &SharingHandler{service: svc, logger: logger}
}

// GenerateLink handles POST /api/v1/sharing/files/{id}/links
func (h *SharingHandler) GenerateLink(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	if user == nil {
		writeAppError(w, r, apperrors.Unauthorized("not authenticated"), h.logger)
		return
	}

	message, err := h.service.GenerateShareLink(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": message}})
}

// ValidateLink handles GET /api/v1/sharing/links/{token}
func (h *SharingHandler) ValidateLink(w http.ResponseWriter, r *http.Request) {
	message, err := h.service.ValidateShareLink(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": message}})
}

// UpdatePermissions handles PUT /api/v1/sharing/files/{id}/permissions
func (h *SharingHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	if user == nil {
		writeAppError(w, r, apperrors.Unauthorized("not authenticated"), h.logger)
		return
	}

	message, err := h.service.UpdatePermissions(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": message}})
}
