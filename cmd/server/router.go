package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/lexigo-app/lexigo-api/internal/api"
	apiMiddleware "github.com/lexigo-app/lexigo-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	if len(app.config.Server.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: app.config.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler)
	}

	studyHandler := api.NewStudyHandler(app.sessionService, app.logger)
	profileHandler := api.NewProfileHandler(app.sessionService, app.logger)
	vocabularyHandler := api.NewVocabularyHandler(app.sessionService, app.logger)
	activityHandler := api.NewActivityHandler(app.sessionService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/study/queue", studyHandler.GetStudyQueue)
		r.Post("/study/items/{id}/grade", studyHandler.SubmitGrade)

		r.Get("/profile", profileHandler.GetProfile)

		r.Post("/vocabulary/import", vocabularyHandler.ImportVocabulary)
		r.Delete("/vocabulary/{id}", vocabularyHandler.DeleteVocabulary)

		r.Get("/reading/passage", activityHandler.GetReadingPassage)
		r.Post("/reading/complete", activityHandler.CompleteReading)
		r.Post("/speaking/complete", activityHandler.CompleteSpeaking)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
