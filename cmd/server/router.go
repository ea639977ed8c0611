package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/tasktrack/tasktrack-api/internal/api"
	apimiddleware "github.com/tasktrack/tasktrack-api/internal/api/middleware"
	"github.com/tasktrack/tasktrack-api/internal/api/shared"
)

// welcomeResponse is the payload of the root endpoint.
type welcomeResponse struct {
	Message string `json:"message"`
}

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware. Request IDs come first so every later
	// middleware and handler logs with the correlation id attached.
	r.Use(chimiddleware.RealIP)
	r.Use(apimiddleware.RequestID)
	r.Use(apimiddleware.Recoverer)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.authenticator, app.jwtService)
	taskHandler := api.NewTaskHandler(app.taskService)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService, app.userStore)

	// Register routes
	r.Route("/api/v1", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/{id}", taskHandler.Get)
				r.Put("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
			})
		})
	})

	// Welcome endpoint
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		shared.RespondEnvelope(w, req, http.StatusOK, welcomeResponse{
			Message: "Welcome to the TaskTrack API",
		})
	})

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
