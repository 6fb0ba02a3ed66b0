package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	apperrors "github.com/contactfaris48-art/fms-backend/internal/errors"
	"github.com/contactfaris48-art/fms-backend/internal/service"
	"github.com/contactfaris48-art/fms-backend/internal/session"
	"github.com/contactfaris48-art/fms-backend/internal/validator"
)

// PasswordlessHandler handles HTTP requests for the OTP and magic-link login
// flows. Successful verification establishes a browser session alongside the
// opaque session handle returned in the response body.
type PasswordlessHandler struct {
	service    *service.PasswordlessService
	sessions   *service.OIDCService
	users      *service.UserService
	cookieOpts session.CookieOptions
	frontend   string
	logger     *slog.Logger
}

// NewPasswordlessHandler creates a new passwordless HTTP handler.
func NewPasswordlessHandler(
	svc *service.PasswordlessService,
	sessions *service.OIDCService,
	users *service.UserService,
	cookieOpts session.CookieOptions,
	frontendURL string,
	logger *slog.Logger,
) *PasswordlessHandler {
	return &PasswordlessHandler{
		service:    svc,
		sessions:   sessions,
		users:      users,
		cookieOpts: cookieOpts,
		frontend:   frontendURL,
		logger:     logger,
	}
}

// --- Request DTOs ---

// SendOTPRequest is the JSON request body for OTP issuance.
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest is the JSON request body for OTP verification.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// SendMagicLinkRequest is the JSON request body for magic-link issuance.
type SendMagicLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// --- Handlers ---

// SendOTP handles POST /api/auth/passwordless/send-otp
func (h *PasswordlessHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SendOTPRequest
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

	if err := h.service.SendOTP(r.Context(), req.Email); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Data: map[string]string{"message": "OTP sent to your email"},
	})
}

// VerifyOTP handles POST /api/auth/passwordless/verify-otp
func (h *PasswordlessHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req VerifyOTPRequest
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

	user, handle, err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	sess, err := h.sessions.EstablishSession(r.Context(), user)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}
	session.SetCookie(w, sess.ID, sess.ExpiresAt, h.cookieOpts)

	writeJSON(w, http.StatusOK, response{
		Data: map[string]any{
			"user":  user,
			"token": handle,
		},
	})
}

// SendMagicLink handles POST /api/auth/passwordless/send-magic-link
func (h *PasswordlessHandler) SendMagicLink(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SendMagicLinkRequest
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

	if err := h.service.SendMagicLink(r.Context(), req.Email); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Data: map[string]string{"message": "magic link sent to your email"},
	})
}

// VerifyMagicLink handles GET /api/auth/passwordless/verify-magic-link?token=
//
// Link clicks land here from the mail client, so the outcome is communicated
// by redirecting to the frontend with an auth query parameter rather than a
// JSON body.
func (h *PasswordlessHandler) VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("token")

	user, _, err := h.service.VerifyMagicLink(r.Context(), value)
	if err != nil {
		h.redirectFailed(w, r, err)
		return
	}

	sess, err := h.sessions.EstablishSession(r.Context(), user)
	if err != nil {
		h.redirectFailed(w, r, err)
		return
	}
	session.SetCookie(w, sess.ID, sess.ExpiresAt, h.cookieOpts)

	http.Redirect(w, r, h.frontend+"?auth=success", http.StatusFound)
}

// Status handles GET /api/auth/passwordless/status
func (h *PasswordlessHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Status(r.Context(), session.FromRequest(r))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	if sess == nil || !sess.Authenticated() {
		writeJSON(w, http.StatusOK, map[string]any{"isAuthenticated": false})
		return
	}

	user, err := h.users.GetByID(r.Context(), sess.UserID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"isAuthenticated": true,
		"user":            user,
	})
}

func (h *PasswordlessHandler) redirectFailed(w http.ResponseWriter, r *http.Request, err error) {
	message := "invalid or expired magic link"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	h.logger.WarnContext(r.Context(), "magic link verification failed",
		slog.String("error", err.Error()),
	)

	http.Redirect(w, r, h.frontend+"?auth=failed&error="+url.QueryEscape(message), http.StatusFound)
}
