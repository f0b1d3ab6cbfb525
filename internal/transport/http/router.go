package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"steadypath/internal/handler"
	"steadypath/internal/httputil"
	"steadypath/internal/model"
	authmw "steadypath/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	JournalHandler      *handler.JournalHandler
	SessionHandler      *handler.SessionHandler
	PolygraphHandler    *handler.PolygraphHandler
	OfficerHandler      *handler.OfficerHandler
	AssignmentHandler   *handler.AssignmentHandler
	NotificationHandler *handler.NotificationHandler
	SettingsHandler     *handler.SettingsHandler
	Roles               authmw.RoleSource
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", cfg.AuthHandler.Me)
		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		// Compliance records are per-client
		r.Route("/journal", func(r chi.Router) {
			r.Post("/", cfg.JournalHandler.Create)
			r.Get("/", cfg.JournalHandler.List)
			r.Get("/autofill", cfg.JournalHandler.Autofill)
			r.Get("/{id}", cfg.JournalHandler.Get)
			r.Patch("/{id}", cfg.JournalHandler.Update)
			r.Delete("/{id}", cfg.JournalHandler.Delete)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", cfg.SessionHandler.Create)
			r.Get("/", cfg.SessionHandler.List)
			r.Get("/autofill", cfg.SessionHandler.Autofill)
			r.Patch("/{id}", cfg.SessionHandler.Update)
			r.Delete("/{id}", cfg.SessionHandler.Delete)
		})

		r.Route("/polygraphs", func(r chi.Router) {
			r.Post("/", cfg.PolygraphHandler.Create)
			r.Get("/", cfg.PolygraphHandler.List)
			r.Post("/report/presign", cfg.PolygraphHandler.PresignReport)
			r.Patch("/{id}", cfg.PolygraphHandler.Update)
			r.Delete("/{id}", cfg.PolygraphHandler.Delete)
		})

		r.Route("/officer-contacts", func(r chi.Router) {
			r.Post("/", cfg.OfficerHandler.Create)
			r.Get("/", cfg.OfficerHandler.List)
			r.Patch("/{id}", cfg.OfficerHandler.Update)
			r.Delete("/{id}", cfg.OfficerHandler.Delete)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", cfg.AssignmentHandler.List)
			r.Post("/{id}/complete", cfg.AssignmentHandler.MarkComplete)
			r.Delete("/{id}/complete", cfg.AssignmentHandler.UnmarkComplete)

			// Publishing and removal are facilitator actions
			r.With(authmw.RequireRole(cfg.Roles, model.RoleFacilitator)).Post("/", cfg.AssignmentHandler.Create)
			r.With(authmw.RequireRole(cfg.Roles, model.RoleFacilitator)).Delete("/{id}", cfg.AssignmentHandler.Delete)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Get("/unread-count", cfg.NotificationHandler.UnreadCount)
			r.Patch("/read", cfg.NotificationHandler.MarkRead)
		})

		r.Route("/devices", func(r chi.Router) {
			r.Post("/token", cfg.NotificationHandler.RegisterToken)
			r.Delete("/token", cfg.NotificationHandler.RemoveToken)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/reminders", cfg.SettingsHandler.GetReminders)
			r.Put("/reminders", cfg.SettingsHandler.UpdateReminders)
		})
	})

	return r
}
