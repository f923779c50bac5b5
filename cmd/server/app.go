package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/platform/logger"
	"github.com/taskflow/taskflow-api/internal/platform/sqlite"
	"github.com/taskflow/taskflow-api/internal/service"
	"github.com/taskflow/taskflow-api/internal/store"
)

// application holds the assembled dependency graph for the server: config,
// logger, database handle, stores, and services, wired once at startup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore store.TaskStore
	userStore store.UserStore

	taskService *service.TaskService
	userService *service.UserService
}

// newApplication loads configuration, sets up logging, opens the database
// (running any pending migrations), and wires stores and services together.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_path", cfg.Database.Path))

	db, err := sqlite.Open(ctx, sqlite.DBConfig{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	taskStore := sqlite.NewTaskStore(db)
	userStore := sqlite.NewUserStore(db)

	app := &application{
		config:      cfg,
		logger:      log,
		db:          db,
		taskStore:   taskStore,
		userStore:   userStore,
		taskService: service.NewTaskService(taskStore, log),
		userService: service.NewUserService(userStore, log),
	}

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}
}
