package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/maxviazov/roster-stats-service/internal/config"
	"github.com/maxviazov/roster-stats-service/internal/handler"
	"github.com/maxviazov/roster-stats-service/internal/logger"
	"github.com/maxviazov/roster-stats-service/internal/repository"
	"github.com/maxviazov/roster-stats-service/internal/repository/memory"
	"github.com/maxviazov/roster-stats-service/internal/repository/postgres"
	"github.com/maxviazov/roster-stats-service/internal/service"
)

const shutdownTimeout = 10 * time.Second

// storage is the set of repositories the services are built on.
type storage struct {
	pinger      repository.Pinger
	tx          repository.TxManager
	players     repository.PlayerRepository
	assignments repository.AssignmentRepository
	stats       repository.StatisticRepository
	close       func()
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("storage initialization failed")
	}
	defer st.close()

	clock := clockwork.NewRealClock()
	playerSvc := service.NewPlayerService(st.players, clock, appLogger)
	assignmentSvc := service.NewAssignmentService(st.tx, st.players, st.assignments, clock, appLogger)
	statSvc := service.NewStatisticService(st.stats, st.assignments, clock, appLogger)

	if cfg.App.Env == "prod" || cfg.App.Env == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		handler.RequestID(),
		handler.RequestLogger(appLogger),
		handler.Timeout(time.Duration(cfg.App.RequestTimeout)*time.Second),
	)
	handler.Register(r, st.pinger, playerSvc, assignmentSvc, statSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		appLogger.Info().Str("addr", srv.Addr).Str("driver", cfg.Storage.Driver).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}
	appLogger.Info().Msg("service stopped")
}

func configPath() string {
	if p := os.Getenv("APP_CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func openStorage(ctx context.Context, cfg *config.Config, l *zerolog.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		s := memory.NewStore()
		l.Warn().Msg("using in-memory storage; data is lost on restart")
		return &storage{
			pinger:      s,
			tx:          s.TxManager(),
			players:     s.Players(),
			assignments: s.Assignments(),
			stats:       s.Statistics(),
			close:       func() {},
		}, nil
	case config.DriverPostgres:
		db, err := repository.New(ctx, &cfg.Postgres, l)
		if err != nil {
			return nil, err
		}
		pool := db.Pool()
		return &storage{
			pinger:      postgres.NewPinger(pool),
			tx:          postgres.NewTxManager(pool),
			players:     postgres.NewPlayerRepository(pool),
			assignments: postgres.NewAssignmentRepository(pool),
			stats:       postgres.NewStatisticRepository(pool),
			close:       db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
