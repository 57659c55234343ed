package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the HTTP routing tree for the command surface.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/validate/code", h.ValidateByCode)
		r.Post("/validate/tag", h.ValidateByTag)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.AddUser)
			r.Get("/", h.ListUsers)
			r.Patch("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.RemoveUser)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Post("/", h.CreateSchedule)
			r.Get("/", h.ListSchedules)
			r.Patch("/{id}", h.UpdateSchedule)
			r.Delete("/{id}", h.RemoveSchedule)
		})
	})

	return r
}

// handleHealth handles health check requests.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
