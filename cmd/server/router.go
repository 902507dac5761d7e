package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/halvard/wordvault-api/internal/api"
	apimiddleware "github.com/halvard/wordvault-api/internal/api/middleware"
)

// setupRouter configures all routes and middleware for the server.
// Authentication endpoints are public; everything else requires a valid
// bearer token.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore, app.jwtService, app.passwordVerifier, app.passwordVerifier)
	collectionHandler := api.NewCollectionHandler(app.collectionService, app.logger)
	ingestionHandler := api.NewIngestionHandler(app.ingestionService, app.logger)
	practiceHandler := api.NewPracticeHandler(app.practiceService, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/collections", collectionHandler.CreateCollection)
			r.Post("/collections/{id}/words", collectionHandler.AddWord)
			r.Post("/collections/{id}/batches", ingestionHandler.SubmitBatch)
			r.Get("/batches/{id}", ingestionHandler.GetBatch)

			r.Post("/collections/{id}/practice", practiceHandler.StartSession)
			r.Get("/practice/{id}", practiceHandler.GetSession)
			r.Post("/practice/{id}/answer", practiceHandler.SubmitAnswer)
			r.Post("/practice/{id}/advance", practiceHandler.Advance)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
