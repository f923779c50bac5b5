// Package main implements the entry point for the TaskFlow API server,
// a task-tracking service with due-date and overdue reporting backed by
// an embedded SQLite database.
package main

import (
	"context"
	"log"
)

func main() {
	ctx := context.Background()

	app, err := newApplication(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		app.logger.Error("server exited with error", "error", err)
		app.cleanup()
		log.Fatalf("Server error: %v", err)
	}
}
