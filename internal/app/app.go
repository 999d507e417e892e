// Package app wires configuration into stores, the provider and the
// ingestion orchestrator. Both the API server and the ingest CLI build on it.
package app

import (
	"context"
	"fmt"
	"time"

	"marketpulse/internal/config"
	"marketpulse/internal/database"
	"marketpulse/internal/ingest"
	"marketpulse/internal/logger"
	"marketpulse/internal/market"
	"marketpulse/internal/mongostore"
	"marketpulse/internal/provider"
	"marketpulse/internal/services"
	"marketpulse/internal/universe"
)

// App holds the wired components.
type App struct {
	Config       *config.Config
	Stocks       services.StockServicer
	Checkpoints  services.CheckpointServicer
	Provider     *provider.PolygonProvider
	Calendar     *market.Calendar
	Orchestrator *ingest.Orchestrator

	closers []func(context.Context) error
}

// New opens the configured store, runs migrations where applicable and
// builds the orchestrator.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Get()
	a := &App{Config: cfg}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		a.Stocks, a.Checkpoints = store, store
		a.closers = append(a.closers, store.Close)

	default:
		dbManager, err := database.NewManager(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create database manager: %w", err)
		}
		if err := dbManager.RunMigrations(); err != nil {
			_ = dbManager.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		db := dbManager.DB()
		a.Stocks = services.NewStockService(db)
		a.Checkpoints = services.NewCheckpointService(db)
		a.closers = append(a.closers, func(context.Context) error { return dbManager.Close() })
	}

	cal, err := market.NewCalendar(cfg.MarketTimezone)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.Calendar = cal

	if cfg.PolygonAPIKey == "" {
		log.Warn("POLYGON_API_KEY is not set; provider requests will be rejected")
	}
	a.Provider = provider.NewPolygonProvider(provider.PolygonConfig{
		APIKey:           cfg.PolygonAPIKey,
		BaseURL:          cfg.PolygonBaseURL,
		Timeout:          cfg.RequestTimeout,
		MinInterval:      cfg.ProviderMinInterval,
		FailureThreshold: cfg.BreakerFailureThreshold,
		Cooldown:         cfg.BreakerCooldown,
	})

	a.Orchestrator = ingest.NewOrchestrator(a.Provider, a.Stocks, a.Checkpoints, universe.Default(), cal, ingest.Options{
		BatchSize: cfg.BatchSize,
		Delay: ingest.DelayPolicy{
			Base:      cfg.DelayBase,
			Step:      cfg.DelayStep,
			MaxJitter: cfg.DelayMaxJitter,
		},
		RateLimitCooldown: cfg.RateLimitCooldown,
	})

	log.Infow("application wired",
		"store", cfg.StoreDriver,
		"provider", a.Provider.Name(),
		"universe_size", a.Orchestrator.Universe().Len(),
		"timezone", cfg.MarketTimezone,
	)
	return a, nil
}

// Close releases store connections.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// ShutdownTimeout bounds graceful shutdown of servers and stores.
const ShutdownTimeout = 15 * time.Second
