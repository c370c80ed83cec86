// Package main implements the entry point for the taskward API server,
// which manages role-gated task assignment and the overdue sweep that
// escalates missed work.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/taskward/taskward-api/internal/config"
	"github.com/taskward/taskward-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run database migrations (up|down|status) and exit")
	flag.Parse()

	// A local .env is optional; real deployments configure through the
	// environment.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		log.Fatalf("failed to set up logger: %v", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"sweep_schedule", cfg.Sweep.Schedule)

	if *migrateCmd != "" {
		if err := runMigrationCommand(cfg, *migrateCmd); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		return
	}

	app, err := newApplication(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
	fmt.Println("server stopped")
}
