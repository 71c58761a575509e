package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/praxisapp/praxis-api/internal/api"
	apiMiddleware "github.com/praxisapp/praxis-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	practiceHandler := api.NewPracticeHandler(app.reviewService, app.sessionService, app.logger)
	progressHandler := api.NewProgressHandler(app.progressService, app.logger)
	bookmarkHandler := api.NewBookmarkHandler(app.bookmarkService, app.reportService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Practice endpoints
			r.Post("/sessions", practiceHandler.ComposeSession)
			r.Post("/questions/{id}/answer", practiceHandler.SubmitAnswer)

			// Bookmark and report endpoints
			r.Post("/questions/{id}/bookmark", bookmarkHandler.Toggle)
			r.Post("/questions/{id}/report", bookmarkHandler.Report)
			r.Get("/me/bookmarks", bookmarkHandler.List)

			// Progress endpoints
			r.Get("/topics/{id}/stats", progressHandler.TopicStats)
			r.Get("/me/activity", progressHandler.Activity)
			r.Get("/me/heatmap", progressHandler.Heatmap)
			r.Get("/me/streak", progressHandler.Streak)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
