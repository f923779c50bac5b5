package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskflow/taskflow-api/internal/api"
	apiMiddleware "github.com/taskflow/taskflow-api/internal/api/middleware"
	"github.com/taskflow/taskflow-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes
// and middleware, using the application's services to build the handlers.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.RequestID)

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)

	r.Route("/tasks", func(r chi.Router) {
		// Fixed-path routes are registered before /{id} so chi never
		// parses "overdue" as a task ID.
		r.Get("/overdue", taskHandler.ListOverdueTasks)
		r.Get("/due-today", taskHandler.ListDueToday)
		r.Get("/due-this-week", taskHandler.ListDueThisWeek)
		r.Get("/stats", taskHandler.GetStats)

		r.Get("/", taskHandler.ListTasks)
		r.Post("/", taskHandler.CreateTask)
		r.Get("/{id}", taskHandler.GetTask)
		r.Put("/{id}", taskHandler.UpdateTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.ListUsers)
		r.Post("/", userHandler.CreateUser)
		r.Get("/{id}", userHandler.GetUser)
		r.Put("/{id}", userHandler.UpdateUser)
		r.Delete("/{id}", userHandler.DeleteUser)
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := app.db.PingContext(req.Context()); err != nil {
			app.logger.Error("health check database ping failed", "error", err)
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		shared.RespondWithJSON(w, req, code, map[string]string{"status": status})
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		shared.RespondWithJSON(w, req, http.StatusOK, map[string]string{
			"service": "taskflow-api",
			"version": "1.0",
		})
	})

	return r
}
