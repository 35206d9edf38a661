package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// setupPublicRoutes sets up the visitor-facing routes
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/projects", handlers.projectHandler.getPublishedProjects())
		r.Get("/projects/{slug}", handlers.projectHandler.getProjectBySlug())
		r.Post("/contact", handlers.contactHandler.submitContact())

		r.Post("/admin/login", handlers.authHandler.login())
		r.Post("/admin/logout", handlers.authHandler.logout())
	})
}

// setupAdminRoutes sets up the session-gated authoring routes. The session is
// verified once here, at group entry.
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, sessions sessionMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(sessions.requireAdmin)

		r.Get("/admin/projects", handlers.projectHandler.getAllProjects())
		r.Post("/admin/projects", handlers.projectHandler.createProject())
		r.Get("/admin/projects/{projectID}", handlers.projectHandler.getProjectForEdit())
		r.Put("/admin/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/admin/projects/{projectID}", handlers.projectHandler.deleteProject())

		r.Get("/admin/contact", handlers.contactHandler.getAllContactRequests())
		r.Delete("/admin/contact/{requestID}", handlers.contactHandler.deleteContactRequest())
	})
}

// setupHealthRoute exposes a liveness endpoint for the hosting platform.
func setupHealthRoute(r chi.Router, startupTime time.Time) {
	responder := NewResponder(log.Logger)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		responder.WriteJSON(w, map[string]interface{}{
			"status": "ok",
			"uptime": time.Since(startupTime).String(),
		})
	})
}
