package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
//	GET  /health
//	GET  /api/v1/today
//	POST /api/v1/complete
//	GET  /api/v1/ledger
//	PUT  /api/v1/scheme
//	GET  /api/v1/schedule/{scheme}
//	GET  /api/v1/calendar?year=&month=&offset=
//	GET  /api/v1/content?start=&end=
//	GET  /api/v1/history
func SetupRoutes(handlers *Handlers, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(log),
		RequestIDMiddleware(),
		LoggingMiddleware(log),
		CORSMiddleware(),
	)

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/today", handlers.GetToday)
		r.Post("/complete", handlers.Complete)
		r.Get("/ledger", handlers.GetLedger)
		r.Put("/scheme", handlers.SetScheme)
		r.Get("/schedule/{scheme}", handlers.GetSchedule)
		r.Get("/calendar", handlers.GetCalendar)
		r.Get("/content", handlers.GetContent)
		r.Get("/history", handlers.GetHistory)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	return r
}
