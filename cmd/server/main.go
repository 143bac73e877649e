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

	"github.com/courtside/club-stats-service/internal/auth"
	"github.com/courtside/club-stats-service/internal/config"
	"github.com/courtside/club-stats-service/internal/handler"
	"github.com/courtside/club-stats-service/internal/logger"
	"github.com/courtside/club-stats-service/internal/metrics"
	"github.com/courtside/club-stats-service/internal/repository"
	"github.com/courtside/club-stats-service/internal/repository/postgres"
	"github.com/courtside/club-stats-service/internal/service"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}

	ctx := context.Background()
	repo, err := repository.New(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer repo.Close()

	if cfg.Postgres.Migrate {
		if err := repo.Migrate(ctx); err != nil {
			appLogger.Fatal().Err(err).Msg("migrations failed")
		}
	}

	pool := repo.Pool()
	m := metrics.NewService()

	authSvc := auth.NewService(postgres.NewUserRepository(pool), cfg.Auth, appLogger)
	teams := postgres.NewTeamRepository(pool)
	players := postgres.NewPlayerRepository(pool)
	games := postgres.NewGameRepository(pool)
	tx := postgres.NewTxManager(pool)

	svcs := handler.Services{
		Teams:   service.NewTeamService(teams, appLogger),
		Players: service.NewPlayerService(players, teams, appLogger),
		Games:   service.NewGameService(games, teams, appLogger),
		Stats: service.NewStatsService(
			postgres.NewStatsRepository(pool),
			postgres.NewTeamStatsRepository(pool),
			players, games, tx, appLogger,
		),
		StatsQuery: service.NewStatsQueryService(
			postgres.NewStatRowSource(pool), cfg.Query, m, appLogger,
		),
		Auth: authSvc,
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), handler.RequestID(), handler.AccessLog(appLogger), handler.Observe(m))
	handler.Register(engine, postgres.NewPinger(pool), svcs, m)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info().Int("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}
	appLogger.Info().Msg("stopped")
}
