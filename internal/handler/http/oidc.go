package http

import (
	"log/slog"
	"net/http"

	"github.com/contactfaris48-art/fms-backend/internal/service"
	"github.com/contactfaris48-art/fms-backend/internal/session"
)

// OIDCHandler handles the browser-facing federated login flow: redirect to
// the provider's hosted UI, the authorization-code callback, logout, and the
// session status probe.
type OIDCHandler struct {
	service    *service.OIDCService
	users      *service.UserService
	cookieOpts session.CookieOptions
	frontend   string
	logger     *slog.Logger
}

// NewOIDCHandler creates a new federated login HTTP handler.
func NewOIDCHandler(
	svc *service.OIDCService,
	users *service.UserService,
	cookieOpts session.CookieOptions,
	frontendURL string,
	logger *slog.Logger,
) *OIDCHandler {
	return &OIDCHandler{
		service:    svc,
		users:      users,
		cookieOpts: cookieOpts,
		frontend:   frontendURL,
		logger:     logger,
	}
}

// Login handles GET /api/auth/oidc/login
//
// It creates a pending session carrying fresh state and nonce values and
// redirects the browser to the provider's hosted login page.
func (h *OIDCHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess, redirectURL, err := h.service.BeginLogin(r.Context())
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	session.SetCookie(w, sess.ID, sess.ExpiresAt, h.cookieOpts)
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// Callback handles GET /api/auth/oidc/callback?code&state
//
// Any failure redirects back to the login entry point so the user can retry,
// never to an error page.
func (h *OIDCHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		h.logger.WarnContext(r.Context(), "provider returned callback error",
			slog.String("error", errParam),
			slog.String("description", query.Get("error_description")),
		)
		h.redirectToLogin(w, r)
		return
	}

	sess, err := h.service.CompleteLogin(r.Context(),
		session.FromRequest(r),
		query.Get("state"),
		query.Get("code"),
	)
	if err != nil {
		h.logger.WarnContext(r.Context(), "federated callback failed",
			slog.String("error", err.Error()),
		)
		h.redirectToLogin(w, r)
		return
	}

	session.SetCookie(w, sess.ID, sess.ExpiresAt, h.cookieOpts)
	http.Redirect(w, r, h.frontend, http.StatusFound)
}

// Logout handles GET /api/auth/oidc/logout
//
// The local session is destroyed and the browser is sent to the provider's
// logout endpoint so the hosted session is cleared too.
func (h *OIDCHandler) Logout(w http.ResponseWriter, r *http.Request) {
	logoutURL, err := h.service.Logout(r.Context(), session.FromRequest(r))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	session.ClearCookie(w, h.cookieOpts)
	http.Redirect(w, r, logoutURL, http.StatusFound)
}

// Status handles GET /api/auth/oidc/status
//
// Reports whether the session holds cached provider claims without contacting
// the provider.
func (h *OIDCHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Status(r.Context(), session.FromRequest(r))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	if sess == nil || !sess.Authenticated() {
		writeJSON(w, http.StatusOK, map[string]any{"isAuthenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"isAuthenticated": true,
		"userInfo":        sess.UserInfo,
	})
}

func (h *OIDCHandler) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/auth/oidc/login", http.StatusFound)
}
