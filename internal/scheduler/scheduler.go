// Package scheduler triggers full ingestion passes on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"marketpulse/internal/ingest"
	"marketpulse/internal/logger"
)

// Updater runs a single batch.
type Updater interface {
	UpdateStocks(ctx context.Context, req ingest.UpdateRequest) (*ingest.UpdateResult, error)
}

// Config configures a Scheduler.
type Config struct {
	Spec         string // standard five-field cron expression
	Location     *time.Location
	TotalBatches int
	ForceUpdate  bool
}

// Scheduler runs every batch in order on each cron tick. A tick that fires
// while the previous pass is still running is skipped.
type Scheduler struct {
	cron    *cron.Cron
	updater Updater
	cfg     Config

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a Scheduler; it does not start it.
func New(cfg Config, updater Updater) (*Scheduler, error) {
	if cfg.TotalBatches < 1 {
		return nil, fmt.Errorf("total batches must be at least 1, got %d", cfg.TotalBatches)
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	cronLog := cronLogger{log: logger.Get()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: c, updater: updater, cfg: cfg, ctx: ctx, cancel: cancel}

	if _, err := c.AddFunc(cfg.Spec, s.tick); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", cfg.Spec, err)
	}
	return s, nil
}

// Start begins firing ticks in the background.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	s.cron.Start()
	s.running = true

	logger.Get().Infow("scheduler started",
		"schedule", s.cfg.Spec,
		"total_batches", s.cfg.TotalBatches,
		"next_run", s.NextRun(),
	)
	return nil
}

// Stop cancels any running pass and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cancel()
	<-s.cron.Stop().Done()
	s.running = false
	logger.Get().Info("scheduler stopped")
}

// NextRun returns the time of the next scheduled tick.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) tick() {
	RunAll(s.ctx, s.updater, s.cfg.TotalBatches, s.cfg.ForceUpdate)
}

// RunAll runs batches 1..totalBatches in order, stopping early when a batch
// reports no next batch or ctx is done. Batch 1 picks the trading dates and
// later batches reuse them, since each batch records its own checkpoint.
func RunAll(ctx context.Context, updater Updater, totalBatches int, force bool) []*ingest.UpdateResult {
	log := logger.Get()
	start := time.Now()

	var results []*ingest.UpdateResult
	var pinned *ingest.UpdateResult
	processed := 0
	for batch := 1; batch <= totalBatches; batch++ {
		if ctx.Err() != nil {
			log.Warnw("ingestion pass cancelled", "next_batch", batch)
			break
		}

		req := ingest.UpdateRequest{
			BatchNumber:  batch,
			TotalBatches: totalBatches,
			ForceUpdate:  force,
		}.PinDates(pinned)

		res, err := updater.UpdateStocks(ctx, req)
		if err != nil {
			log.Errorw("batch failed", "batch", batch, "error", err)
		}
		if res == nil {
			continue
		}
		results = append(results, res)
		processed += res.Processed
		if pinned == nil && res.CurrentDate != "" {
			pinned = res
		}

		if res.Success && res.NextBatch == nil {
			break
		}
	}

	log.Infow("ingestion pass finished",
		"batches", len(results),
		"processed", processed,
		"duration", time.Since(start),
	)
	return results
}

// cronLogger adapts the zap logger to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
