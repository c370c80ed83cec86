package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskward/taskward-api/internal/config"
	"github.com/taskward/taskward-api/internal/notify"
	"github.com/taskward/taskward-api/internal/platform/postgres"
	"github.com/taskward/taskward-api/internal/service"
	"github.com/taskward/taskward-api/internal/service/auth"
	"github.com/taskward/taskward-api/internal/store"
	"github.com/taskward/taskward-api/internal/sweep"
)

// application holds the assembled dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	userService service.UserService
	taskService service.TaskService

	notifier       notify.Notifier
	sweepEngine    *sweep.Engine
	sweepScheduler *sweep.Scheduler
}

// newApplication wires stores, services, the notifier, and the sweep from
// the loaded configuration.
func newApplication(cfg *config.Config) (*application, error) {
	log := slog.Default()

	db, err := setupDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	taskStore := postgres.NewPostgresTaskStore(db, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	verifier := auth.NewBcryptVerifier()

	userService, err := service.NewUserService(userStore, hasher, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	taskService, err := service.NewTaskService(taskStore, userStore, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	var notifier notify.Notifier
	if cfg.Notify.Host != "" {
		notifier = notify.NewSMTPNotifier(cfg.Notify, log)
	} else {
		log.Info("no SMTP host configured, notifications go to the log")
		notifier = notify.NewLogNotifier(log)
	}

	sweepEngine, err := sweep.NewEngine(db, taskStore, userStore, notifier, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep engine: %w", err)
	}
	sweepScheduler, err := sweep.NewScheduler(sweepEngine, cfg.Sweep, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep scheduler: %w", err)
	}

	return &application{
		config:           cfg,
		logger:           log,
		db:               db,
		userStore:        userStore,
		taskStore:        taskStore,
		jwtService:       jwtService,
		passwordVerifier: verifier,
		userService:      userService,
		taskService:      taskService,
		notifier:         notifier,
		sweepEngine:      sweepEngine,
		sweepScheduler:   sweepScheduler,
	}, nil
}

// cleanup releases the application's resources in reverse dependency
// order. Safe to call once during shutdown.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
