package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/KasumiMercury/primind-habit-reminder/internal/app"
	"github.com/KasumiMercury/primind-habit-reminder/internal/config"
	"github.com/KasumiMercury/primind-habit-reminder/internal/infra/handler"
	"github.com/KasumiMercury/primind-habit-reminder/internal/infra/push"
	"github.com/KasumiMercury/primind-habit-reminder/internal/infra/repository"
	"github.com/KasumiMercury/primind-habit-reminder/internal/observability"
	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/logging"
	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/metrics"
	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/middleware"
	"github.com/KasumiMercury/primind-habit-reminder/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("failed to shutdown observability", "error", err)
		}
	}()

	db, err := initDatabase(cfg.Database, cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database connection", "error", err)
		}
	}()

	client, err := initDeliveryClient(ctx, cfg.FCM)
	if err != nil {
		return fmt.Errorf("failed to initialize delivery client: %w", err)
	}

	schedulerOpts := []scheduler.Option{
		scheduler.WithRetryDelay(cfg.Scheduler.RetryDelay),
		scheduler.WithDeliveryTimeout(cfg.Scheduler.DeliveryTimeout),
		scheduler.WithMaxConsecutiveFailures(cfg.Scheduler.MaxConsecutiveFailures),
		scheduler.WithMetrics(obs.Metrics.Reminder),
	}

	publisher, err := initPublisher(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	if publisher != nil {
		defer func() {
			if err := publisher.Close(); err != nil {
				slog.Warn("failed to close publisher", "error", err)
			}
		}()

		schedulerOpts = append(schedulerOpts, scheduler.WithPublisher(publisher))
	}

	settingsRepo := repository.NewSettingsRepository(db)
	reminders := scheduler.New(settingsRepo, client, schedulerOpts...)
	loader := scheduler.NewLoader(settingsRepo, reminders, obs.Metrics.Reminder)

	notificationUseCase := app.NewNotificationUseCase(settingsRepo, reminders)
	notificationHandler := handler.NewNotificationHandler(notificationUseCase)

	router := setupRouter(notificationHandler, obs.Metrics)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	reminders.Start()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", cfg.Server.Address())
		serverErr <- srv.ListenAndServe()
	}()

	// Jobs are armed once the API is reachable; a failed load leaves the
	// service running and later settings writes re-arm users one by one.
	go func() {
		armed, err := loader.LoadAll(ctx)
		if err != nil {
			slog.Error("bootstrap failed", "error", err, "armed", armed)
			return
		}

		slog.Info("bootstrap finished", "armed", armed)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server exited with error", "error", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
		runErr = errors.Join(runErr, err)
	}

	if err := reminders.Stop(shutdownCtx); err != nil {
		slog.Error("failed to stop scheduler", "error", err)
		runErr = errors.Join(runErr, err)
	}

	slog.Info("server exited properly")

	return runErr
}

func runMigrate(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		if err := obs.Shutdown(context.Background()); err != nil {
			slog.Warn("failed to shutdown observability", "error", err)
		}
	}()

	db, err := initDatabase(cfg.Database, cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := repository.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	slog.Info("migration completed")

	return nil
}

func initDatabase(cfg config.DatabaseConfig, logCfg config.LogConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logging.NewDBLogger(200*time.Millisecond, logCfg.Level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

func initDeliveryClient(ctx context.Context, cfg config.FCMConfig) (scheduler.DeliveryClient, error) {
	if !cfg.Enabled() {
		slog.Warn("FCM credentials not set, push delivery is log only")
		return push.NewLogClient(), nil
	}

	client, err := push.NewFCMClient(ctx, push.FCMConfig{
		CredentialsFile: cfg.CredentialsFile,
		ProjectID:       cfg.ProjectID,
		SendRate:        cfg.SendRate,
		SendBurst:       cfg.SendBurst,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("FCM delivery client initialized", "project_id", cfg.ProjectID)

	return client, nil
}

func setupRouter(notificationHandler *handler.NotificationHandler, reg *metrics.Provider) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Gin(middleware.GinConfig{
			SkipPaths:   []string{"/ping", "/metrics"},
			Module:      logging.Module("notification"),
			TracerName:  "github.com/KasumiMercury/primind-habit-reminder/internal/infra/handler",
			HTTPMetrics: reg.HTTP,
		}),
		middleware.PanicRecoveryGin(),
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(reg.Handler()))

	v1 := router.Group("/api/v1")
	notificationHandler.RegisterRoutes(v1)

	return router
}

func observabilityConfig(cfg *config.Config, env logging.Environment, serviceName, revision, projectID string) observability.Config {
	return observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: revision,
		},
		Environment:   env,
		LogLevel:      cfg.Log.Level,
		GCPProjectID:  projectID,
		OTLPEndpoint:  cfg.Tracing.OTLPEndpoint,
		SamplingRate:  cfg.Tracing.SamplingRate,
		DefaultModule: logging.Module("reminder"),
	}
}
