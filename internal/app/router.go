package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/schooladmin/schooladmin/internal/auth"
	"github.com/schooladmin/schooladmin/internal/classrooms"
	"github.com/schooladmin/schooladmin/internal/observability"
	"github.com/schooladmin/schooladmin/internal/platform/httpx"
	"github.com/schooladmin/schooladmin/internal/schools"
	"github.com/schooladmin/schooladmin/internal/students"
	"github.com/schooladmin/schooladmin/internal/users"
)

// APIPrefix is where the resource routes are mounted.
const APIPrefix = "/api/v1"

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	UsersHandler     *users.Handler
	SchoolsHandler   *schools.Handler
	ClassroomHandler *classrooms.Handler
	StudentsHandler  *students.Handler
	Metrics          *observability.Metrics
	// Health reports readiness of backing stores; nil means always healthy.
	Health func(r *http.Request) error
}

// NewRouter constructs the chi.Router with API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if params.Health != nil {
			if err := params.Health(r); err != nil {
				params.Logger.Warn("health check failed", slog.Any("error", err))
				httpx.Failure(w, http.StatusServiceUnavailable, "unavailable")
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Failure(w, http.StatusNotFound, "Route not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Failure(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Route(APIPrefix, func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			if params.AuthHandler != nil {
				params.AuthHandler.MountRoutes(r)
			}
			if params.UsersHandler != nil {
				params.UsersHandler.MountRoutes(r)
			}
		})
		if params.SchoolsHandler != nil {
			r.Route("/school", params.SchoolsHandler.MountRoutes)
		}
		if params.ClassroomHandler != nil {
			r.Route("/classroom", params.ClassroomHandler.MountRoutes)
		}
		if params.StudentsHandler != nil {
			r.Route("/student", params.StudentsHandler.MountRoutes)
		}
	})

	return r
}
