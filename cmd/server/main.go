// Package main is the entry point for the fitness tracker REST service.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: orchestration of use cases (services, DTO mapping)
// - Infrastructure: repository implementations, email delivery, scheduler
// - Interface: HTTP endpoints
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fittrack-hub/fitness-tracker-hub/config"
	trainingapp "github.com/fittrack-hub/fitness-tracker-hub/internal/application/training"
	userapp "github.com/fittrack-hub/fitness-tracker-hub/internal/application/user"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/notification"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/training"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/user"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/infrastructure/email"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/infrastructure/persistence/memory"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/infrastructure/persistence/postgres"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/infrastructure/persistence/redis"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/infrastructure/scheduler"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/infrastructure/scheduler/jobs"
	httpserver "github.com/fittrack-hub/fitness-tracker-hub/internal/interface/http"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("starting",
		"app", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Environment,
	)

	// ── Storage ──────────────────────────────────────────────────────────

	var (
		userRepo     user.Repository
		trainingRepo training.Repository
		healthCheck  func(ctx context.Context) error
	)

	if cfg.Database.URL != "" {
		conn, err := postgres.NewConnection(ctx, postgres.Config{
			URL:             cfg.Database.URL,
			MaxConns:        int32(cfg.Database.MaxConns),
			MinConns:        int32(cfg.Database.MinConns),
			MaxConnLifetime: cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer conn.Close()

		if err := postgres.Migrate(ctx, conn); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		userRepo = postgres.NewUserRepository(conn)
		trainingRepo = postgres.NewTrainingRepository(conn)
		healthCheck = conn.Ping
		logger.Info("storage ready", "backend", "postgres")
	} else {
		userRepo = memory.NewUserRepository()
		trainingRepo = memory.NewTrainingRepository()
		logger.Warn("DATABASE_URL not set, using in-memory storage")
	}

	if !cfg.Redis.Disabled {
		client, err := redis.NewClient(ctx, redis.Config{
			URL: cfg.Redis.URL,
			TTL: cfg.Redis.CacheTTL,
		})
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer client.Close()

		cache := redis.NewCache(client, cfg.Redis.CacheTTL)
		trainingRepo = redis.NewCachedTrainingRepository(trainingRepo, cache, logger)
		logger.Info("training cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	// ── Notifications ────────────────────────────────────────────────────

	var sender notification.Sender
	if cfg.Mail.Disabled {
		sender = email.NewLogSender(logger)
		logger.Info("mail disabled, notifications will be logged")
	} else {
		sender = email.NewSMTPSender(email.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		}, logger)
	}

	// ── Application services ─────────────────────────────────────────────

	userService := userapp.NewService(userRepo, logger)
	trainingService := trainingapp.NewService(trainingRepo, userRepo, sender, logger)

	// ── Scheduler ────────────────────────────────────────────────────────

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(logger)
		sched.Register(
			jobs.NewWeeklyReportJob(userRepo, trainingRepo, sender, logger),
			cfg.Scheduler.WeeklyReportInterval,
		)
		sched.Start(ctx)
		defer sched.Stop()
	}

	// ── HTTP server ──────────────────────────────────────────────────────

	server := httpserver.NewServer(httpserver.Config{
		Host:          cfg.HTTP.Host,
		Port:          cfg.HTTP.Port,
		ReadTimeout:   cfg.HTTP.ReadTimeout,
		WriteTimeout:  cfg.HTTP.WriteTimeout,
		IdleTimeout:   cfg.HTTP.IdleTimeout,
		EnableCORS:    cfg.HTTP.EnableCORS,
		EnableMetrics: cfg.HTTP.EnableMetrics,
	}, httpserver.Dependencies{
		Trainings:   trainingService,
		Users:       userService,
		Logger:      logger,
		HealthCheck: healthCheck,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// newLogger builds the process-wide slog logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.App.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.App.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
