package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apimiddleware "github.com/taskwire/taskwire/internal/api/middleware"
)

// setupRouter wires all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	r.Get("/tasks", app.taskHandler.ListTasks)
	r.Post("/tasks", app.taskHandler.CreateTask)
	r.Post("/summarize", app.summaryHandler.Summarize)

	// Live push stream. Events published before a client finishes the
	// upgrade are not replayed; clients repair via GET /tasks.
	r.Handle("/ws/tasks", app.wsHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
