// Package http wires the advisor handlers into a chi router.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"email-advisor/internal/handlers"
	"email-advisor/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Service service.AdvisorService
	// Observer records request latency; nil disables instrumentation.
	Observer HTTPObserver
	// MetricsHandler serves /metrics when non-nil.
	MetricsHandler http.Handler
	// IndexHTML is the embedded web form served at /.
	IndexHTML string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(LoggerMiddleware)
	if deps.Observer != nil {
		r.Use(Instrument(deps.Observer))
	}
	r.Use(CORS)

	processHandler := handlers.NewProcessHandler(deps.Service)
	rankHandler := handlers.NewRankHandler(deps.Service)
	healthHandler := handlers.NewHealthHandler(deps.Service)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodPost, "/process", processHandler)
			r.Method(http.MethodPost, "/rank", rankHandler)
		})
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(deps.IndexHTML))
	})

	return r
}
