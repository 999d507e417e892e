package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"marketpulse/internal/app"
	"marketpulse/internal/config"
	"marketpulse/internal/logger"
	"marketpulse/internal/router"
	"marketpulse/internal/scheduler"
)

// @title           MarketPulse API
// @version         1.0
// @description     MarketPulse ingests daily stock data in rate-limited batches and serves the latest snapshot per symbol.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Env, cfg.LogFile)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			log.Warnw("failed to close store", "error", err)
		}
	}()

	if cfg.ScheduleCron != "" {
		sched, err := scheduler.New(scheduler.Config{
			Spec:         cfg.ScheduleCron,
			Location:     a.Calendar.Location(),
			TotalBatches: cfg.TotalBatches,
			ForceUpdate:  cfg.ScheduleForce,
		}, a.Orchestrator)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(router.Deps{
		Stocks:      a.Stocks,
		Checkpoints: a.Checkpoints,
		Updater:     a.Orchestrator,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: engine}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting MarketPulse server on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
