// Command migrate applies the embedded goose migrations.
//
//	migrate [up|down|status|reset|version|redo] [args...]
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/maxviazov/roster-stats-service/internal/config"
	"github.com/maxviazov/roster-stats-service/internal/logger"
	"github.com/maxviazov/roster-stats-service/internal/repository"
	"github.com/maxviazov/roster-stats-service/migrations"
)

func main() {
	_ = godotenv.Load()

	path := os.Getenv("APP_CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", repository.DSN(cfg.Postgres))
	if err != nil {
		appLogger.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	if err := migrations.Run(ctx, db, command, args...); err != nil {
		appLogger.Error().Err(err).Str("command", command).Msg("migration failed")
		db.Close()
		os.Exit(1)
	}
	appLogger.Info().Str("command", command).Msg("migrations done")
}
