package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/contactfaris48-art/fms-backend/internal/auth"
	"github.com/contactfaris48-art/fms-backend/internal/health"
	"github.com/contactfaris48-art/fms-backend/internal/middleware"
	"github.com/contactfaris48-art/fms-backend/internal/service"
	"github.com/contactfaris48-art/fms-backend/internal/session"
)

// RouterConfig collects the dependencies the HTTP surface needs.
type RouterConfig struct {
	AuthService         *service.AuthService
	PasswordlessService *service.PasswordlessService
	OIDCService         *service.OIDCService
	UserService         *service.UserService
	FileService         *service.FileService
	FolderService       *service.FolderService
	SharingService      *service.SharingService

	BearerVerifier  auth.Verifier
	SessionVerifier auth.Verifier

	HealthHandler *health.Handler
	CookieOptions session.CookieOptions
	FrontendURL   string
	CORS          middleware.CORSConfig
	Logger        *slog.Logger
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("fms-backend"))

	// Health and metrics endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Passwordless login flow (public, session-establishing)
	passwordlessHandler := NewPasswordlessHandler(
		cfg.PasswordlessService,
		cfg.OIDCService,
		cfg.UserService,
		cfg.CookieOptions,
		cfg.FrontendURL,
		cfg.Logger,
	)
	r.Route("/api/auth/passwordless", func(r chi.Router) {
		r.With(ContentTypeJSON).Post("/send-otp", passwordlessHandler.SendOTP)
		r.With(ContentTypeJSON).Post("/verify-otp", passwordlessHandler.VerifyOTP)
		r.With(ContentTypeJSON).Post("/send-magic-link", passwordlessHandler.SendMagicLink)
		r.Get("/verify-magic-link", passwordlessHandler.VerifyMagicLink)
		r.Get("/status", passwordlessHandler.Status)
	})

	// Federated login flow (public, browser redirects)
	oidcHandler := NewOIDCHandler(
		cfg.OIDCService,
		cfg.UserService,
		cfg.CookieOptions,
		cfg.FrontendURL,
		cfg.Logger,
	)
	r.Route("/api/auth/oidc", func(r chi.Router) {
		r.Get("/login", oidcHandler.Login)
		r.Get("/callback", oidcHandler.Callback)
		r.Get("/logout", oidcHandler.Logout)
		r.Get("/status", oidcHandler.Status)
	})

	// Registration and password login (public)
	authHandler := NewAuthHandler(cfg.AuthService, cfg.Logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/confirm", authHandler.Confirm)
		r.Post("/refresh", authHandler.RefreshToken)
	})

	// API routes authenticate with provider-issued bearer tokens.
	userHandler := NewUserHandler(cfg.UserService, cfg.Logger)
	fileHandler := NewFileHandler(cfg.FileService, cfg.Logger)
	folderHandler := NewFolderHandler(cfg.FolderService, cfg.Logger)
	sharingHandler := NewSharingHandler(cfg.SharingService, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(RequireAuth(cfg.BearerVerifier, cfg.Logger))

		r.Get("/users/me", userHandler.GetMe)
		r.Get("/users/me/storage", userHandler.GetStorage)

		r.Get("/files", fileHandler.List)
		r.Post("/files", fileHandler.Upload)
		r.Get("/files/{id}/download", fileHandler.Download)
		r.Delete("/files/{id}", fileHandler.Delete)

		r.Get("/folders", folderHandler.List)
		r.Post("/folders", folderHandler.Create)
		r.Delete("/folders/{id}", folderHandler.Delete)

		r.Post("/sharing/files/{id}/links", sharingHandler.GenerateLink)
		r.Get("/sharing/links/{token}", sharingHandler.ValidateLink)
		r.Put("/sharing/files/{id}/permissions", sharingHandler.UpdatePermissions)
	})

	// Browser-facing mirror of the profile routes, authenticated by the
	// session cookie set by the passwordless and federated flows.
	r.Route("/api/users", func(r chi.Router) {
		r.Use(RequireAuth(cfg.SessionVerifier, cfg.Logger))

		r.Get("/me", userHandler.GetMe)
		r.Get("/me/storage", userHandler.GetStorage)
	})

	return r
}
