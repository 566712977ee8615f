package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/L3pereira/ndgms/config"
	"github.com/L3pereira/ndgms/internal/earthquake"
	"github.com/L3pereira/ndgms/internal/earthquake/population"
	"github.com/L3pereira/ndgms/internal/earthquake/repository"
	"github.com/L3pereira/ndgms/internal/earthquake/repository/inmem"
	postgres "github.com/L3pereira/ndgms/internal/earthquake/repository/postgre"
	eqUsecase "github.com/L3pereira/ndgms/internal/earthquake/usecase"
	"github.com/L3pereira/ndgms/internal/httpserver"
	"github.com/L3pereira/ndgms/internal/observability"
	"github.com/L3pereira/ndgms/internal/scheduler"
	"github.com/L3pereira/ndgms/internal/usgs"
	wsUsecase "github.com/L3pereira/ndgms/internal/websocket/usecase"
	"github.com/L3pereira/ndgms/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting earthquake notification service...")

	metrics := observability.NewMetrics()

	// Persistence: Postgres when a DSN is configured, in-memory otherwise.
	var repo repository.Repository
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			logger.Fatalf(ctx, "Failed to open Postgres connection: %v", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			logger.Fatalf(ctx, "Failed to ping Postgres: %v", err)
		}
		repo = postgres.New(logger, db)
		logger.Info(ctx, "Postgres repository initialized")
	} else {
		repo = inmem.New()
		logger.Info(ctx, "In-memory repository initialized (no POSTGRES_DSN)")
	}

	feed := usgs.New(logger, metrics, usgs.Config{
		BaseURL: cfg.Feed.BaseURL,
		Timeout: cfg.Feed.FetchTimeout,
	})

	locator := population.NewStaticLocator(nil, 0)

	// WebSocket broadcaster, doubling as the orchestrator's notifier.
	wsUC := wsUsecase.New(logger, metrics, wsUsecase.Config{
		MaxConnections:  cfg.WebSocket.MaxConnections,
		MaxMessageBytes: cfg.Broadcast.MaxMessageBytes,
		PongWait:        cfg.WebSocket.PongWait,
		PingPeriod:      cfg.WebSocket.PingInterval,
		WriteWait:       cfg.WebSocket.WriteWait,
	}, wsUsecase.FilterConfig{
		MinMagnitude:     cfg.Broadcast.MinMagnitude,
		MaxAge:           time.Duration(cfg.Broadcast.MaxAgeMinutes) * time.Minute,
		ThrottleInterval: cfg.Broadcast.ThrottleInterval,
		MaxPerMinute:     cfg.Broadcast.MaxPerMinute,
	}, nil)

	notifier, ok := wsUC.(earthquake.Notifier)
	if !ok {
		logger.Fatal(ctx, "WebSocket use case does not implement the notifier port")
	}

	eqUC := eqUsecase.New(logger, repo, feed, notifier, locator, metrics, earthquake.IngestionParams{
		Period:       cfg.Ingestion.Period,
		MinMagnitude: cfg.Ingestion.MinMagnitude,
		MaxRecords:   cfg.Ingestion.MaxRecords,
		FetchTimeout: cfg.Feed.FetchTimeout,
	})

	// Scheduled ingestion.
	sched := scheduler.New(logger, metrics, nil)
	schedService := scheduler.NewService(logger, sched, eqUC, metrics,
		time.Duration(cfg.Ingestion.IntervalMinutes*float64(time.Minute)),
		cfg.Ingestion.MisfireGrace,
	)
	if err := schedService.Setup(); err != nil {
		logger.Fatalf(ctx, "Failed to register ingestion job: %v", err)
	}
	schedService.Start()
	logger.Infof(ctx, "Ingestion scheduled every %.1f minute(s)", cfg.Ingestion.IntervalMinutes)

	srv, err := httpserver.New(logger, httpserver.Config{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		Mode:      cfg.Server.Mode,
		WSUC:      wsUC,
		EqUC:      eqUC,
		Repo:      repo,
		Scheduler: sched,
		Metrics:   metrics,
		WSConfig:  cfg.WebSocket,
	})
	if err != nil {
		logger.Fatalf(ctx, "Failed to create HTTP server: %v", err)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Errorf(ctx, "HTTP server exited with error: %v", err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := schedService.Stop(stopCtx); err != nil {
		logger.Errorf(ctx, "Scheduler shutdown error: %v", err)
	}

	logger.Info(ctx, "Service stopped")
}
