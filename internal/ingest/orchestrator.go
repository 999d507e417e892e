// Package ingest runs batched, rate-limited stock updates: it plans the
// batch's symbols, picks trading dates from the last checkpoint, fetches
// provider data one symbol at a time and upserts derived stock records.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "marketpulse/internal/errors"
	"marketpulse/internal/logger"
	"marketpulse/internal/market"
	"marketpulse/internal/provider"
	"marketpulse/internal/services"
	"marketpulse/internal/universe"
)

// UpdateRequest identifies the batch to run. CurrentDate and MonthlyDate
// (YYYY-MM-DD) pin the trading dates, so every batch of one pass fetches the
// same sessions; they must be given together and bypass the checkpoint.
type UpdateRequest struct {
	BatchNumber  int    `json:"batch_number" binding:"required,min=1"`
	TotalBatches int    `json:"total_batches" binding:"required,min=1"`
	ForceUpdate  bool   `json:"force_update"`
	CurrentDate  string `json:"current_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	MonthlyDate  string `json:"monthly_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

// PinDates returns a copy of req that reuses the dates reported by res.
func (req UpdateRequest) PinDates(res *UpdateResult) UpdateRequest {
	if res != nil && res.CurrentDate != "" && res.MonthlyDate != "" {
		req.CurrentDate = res.CurrentDate
		req.MonthlyDate = res.MonthlyDate
	}
	return req
}

// UpdateResult is the outcome of one UpdateStocks call.
type UpdateResult struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	BatchNumber  int      `json:"batch_number"`
	Processed    int      `json:"processed"`
	Errors       []string `json:"errors"`
	NextBatch    *int     `json:"next_batch,omitempty"`
	TotalBatches int      `json:"total_batches"`
	CurrentDate  string   `json:"current_date,omitempty"`
	MonthlyDate  string   `json:"monthly_date,omitempty"`
}

// Options tunes pacing and batch sizing.
type Options struct {
	// BatchSize is the number of symbols per batch. Zero derives it from the
	// requested number of batches.
	BatchSize         int
	Delay             DelayPolicy
	RateLimitCooldown time.Duration
}

// Status is a point-in-time view of the orchestrator.
type Status struct {
	InFlight     []int `json:"in_flight"`
	UniverseSize int   `json:"universe_size"`
}

// Orchestrator runs stock update batches. Distinct batch numbers may run
// concurrently; a batch number already running is not started twice.
type Orchestrator struct {
	provider    provider.MarketDataProvider
	stocks      services.StockServicer
	checkpoints services.CheckpointServicer
	universe    *universe.Universe
	calendar    *market.Calendar
	opts        Options
	inflight    *inflight

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(n int64) int64
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	p provider.MarketDataProvider,
	stocks services.StockServicer,
	checkpoints services.CheckpointServicer,
	u *universe.Universe,
	cal *market.Calendar,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		provider:    p,
		stocks:      stocks,
		checkpoints: checkpoints,
		universe:    u,
		calendar:    cal,
		opts:        opts,
		inflight:    newInflight(),
		sleep:       sleepContext,
		jitter:      defaultJitter,
	}
}

// Status reports running batches and the universe size.
func (o *Orchestrator) Status() Status {
	return Status{InFlight: o.inflight.list(), UniverseSize: o.universe.Len()}
}

// Universe returns the symbol universe this orchestrator plans against.
func (o *Orchestrator) Universe() *universe.Universe { return o.universe }

// BatchSize returns the effective batch size for totalBatches.
func (o *Orchestrator) BatchSize(totalBatches int) int {
	if o.opts.BatchSize > 0 {
		return o.opts.BatchSize
	}
	return o.universe.BatchSizeFor(totalBatches)
}

// UpdateStocks runs one batch. Per-symbol failures are reported in the
// result's Errors and never abort the batch. A non-nil error is returned
// only when the batch could not run at all; the result then has Success
// false.
func (o *Orchestrator) UpdateStocks(ctx context.Context, req UpdateRequest) (*UpdateResult, error) {
	log := logger.Get()
	result := &UpdateResult{
		BatchNumber:  req.BatchNumber,
		TotalBatches: req.TotalBatches,
		Errors:       []string{},
	}

	if req.BatchNumber < 1 || req.TotalBatches < 1 {
		return o.fail(result, apperrors.WithMessage(apperrors.ErrInvalidBatch,
			fmt.Sprintf("batch_number and total_batches must be at least 1, got %d/%d", req.BatchNumber, req.TotalBatches)))
	}

	release, ok := o.inflight.acquire(req.BatchNumber)
	if !ok {
		log.Infow("batch already processing, skipping", "batch", req.BatchNumber)
		result.Success = true
		result.Message = fmt.Sprintf("Batch %d is already processing", req.BatchNumber)
		return result, nil
	}
	defer release()

	start := time.Now()

	plan, err := o.universe.PlanBatch(req.BatchNumber, req.TotalBatches, o.BatchSize(req.TotalBatches))
	if err != nil {
		return o.fail(result, apperrors.Wrap(apperrors.ErrInvalidBatch, err))
	}
	if plan.Empty() {
		log.Infow("batch beyond universe, nothing to do",
			"batch", req.BatchNumber,
			"universe_size", plan.UniverseSize,
		)
		result.Success = true
		result.Message = fmt.Sprintf("Batch %d has no symbols to process", req.BatchNumber)
		return result, nil
	}

	dates, err := o.selectDates(ctx, req)
	if err != nil {
		return o.fail(result, err)
	}
	result.CurrentDate = market.FormatDate(dates.Current)
	result.MonthlyDate = market.FormatDate(dates.Monthly)

	log.Infow("starting batch",
		"batch", req.BatchNumber,
		"total_batches", req.TotalBatches,
		"symbols", len(plan.Symbols),
		"start_index", plan.StartIndex,
		"end_index", plan.EndIndex,
		"current_date", result.CurrentDate,
		"monthly_date", result.MonthlyDate,
		"force", req.ForceUpdate,
		"provider", o.provider.Name(),
	)

	for i, symbol := range plan.Symbols {
		if i > 0 {
			if err := o.sleep(ctx, o.opts.Delay.For(i, o.jitter)); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("batch interrupted before %s: %v", symbol, err))
				break
			}
		}

		written, err := o.processSymbol(ctx, symbol, dates)
		switch kind := provider.Classify(err); {
		case err == nil:
			if written {
				result.Processed++
			}
		case kind == provider.KindRateLimited:
			log.Warnw("rate limited, cooling down",
				"symbol", symbol,
				"cooldown", o.opts.RateLimitCooldown,
			)
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: rate limit exceeded, cooled down for %s", symbol, o.opts.RateLimitCooldown))
			if err := o.sleep(ctx, o.opts.RateLimitCooldown); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("batch interrupted during cooldown: %v", err))
			}
		default:
			log.Errorw("failed to update symbol", "symbol", symbol, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", symbol, errorMessage(err)))
		}

		if ctx.Err() != nil {
			break
		}
	}

	if result.Processed > 0 {
		o.checkpoints.Save(context.WithoutCancel(ctx), dates.Current, dates.Monthly)
	}

	if plan.HasMore() {
		next := req.BatchNumber + 1
		result.NextBatch = &next
	}

	result.Success = true
	result.Message = fmt.Sprintf("Batch %d/%d: updated %d of %d symbols",
		req.BatchNumber, req.TotalBatches, result.Processed, len(plan.Symbols))

	log.Infow("batch finished",
		"batch", req.BatchNumber,
		"processed", result.Processed,
		"errors", len(result.Errors),
		"duration", time.Since(start),
	)
	return result, nil
}

func (o *Orchestrator) selectDates(ctx context.Context, req UpdateRequest) (Dates, error) {
	if req.CurrentDate != "" || req.MonthlyDate != "" {
		return o.pinnedDates(req)
	}
	if req.ForceUpdate {
		return SelectDates(o.calendar, nil, true), nil
	}
	cp, err := o.checkpoints.GetLatest(ctx)
	if err != nil {
		return Dates{}, apperrors.Wrap(apperrors.ErrUpdateFailed, fmt.Errorf("reading latest checkpoint: %w", err))
	}
	return SelectDates(o.calendar, cp, false), nil
}

func (o *Orchestrator) pinnedDates(req UpdateRequest) (Dates, error) {
	if req.CurrentDate == "" || req.MonthlyDate == "" {
		return Dates{}, apperrors.WithMessage(apperrors.ErrInvalidBatch,
			"current_date and monthly_date must be given together")
	}
	current, err := market.ParseDate(req.CurrentDate, o.calendar.Location())
	if err != nil {
		return Dates{}, apperrors.WithMessage(apperrors.ErrInvalidBatch, "invalid current_date: "+err.Error())
	}
	monthly, err := market.ParseDate(req.MonthlyDate, o.calendar.Location())
	if err != nil {
		return Dates{}, apperrors.WithMessage(apperrors.ErrInvalidBatch, "invalid monthly_date: "+err.Error())
	}
	if !monthly.Before(current) {
		return Dates{}, apperrors.WithMessage(apperrors.ErrInvalidBatch, "monthly_date must be before current_date")
	}
	return Dates{Current: current, Monthly: monthly}, nil
}

// processSymbol fetches and stores one symbol. It returns (false, nil) when
// the symbol is skipped: unknown, not covered by the plan, or without a
// usable close on the current or comparison date.
func (o *Orchestrator) processSymbol(ctx context.Context, symbol string, dates Dates) (bool, error) {
	log := logger.Get()

	meta, err := o.provider.GetTickerMetadata(ctx, symbol)
	if skip(err) {
		log.Debugw("skipping symbol: no metadata", "symbol", symbol, "reason", provider.Classify(err).String())
		return false, nil
	}
	if err != nil {
		return false, err
	}

	current, err := o.provider.GetDailyBar(ctx, symbol, dates.Current)
	if skip(err) {
		log.Debugw("skipping symbol: no current bar", "symbol", symbol, "date", market.FormatDate(dates.Current))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if current.Close <= 0 {
		log.Debugw("skipping symbol: invalid close", "symbol", symbol, "close", current.Close)
		return false, nil
	}

	previous, err := o.provider.GetPreviousClose(ctx, symbol, dates.Current)
	if skip(err) {
		log.Debugw("no previous session, day change left at zero", "symbol", symbol, "date", market.FormatDate(dates.Current))
		previous = nil
	} else if err != nil {
		return false, err
	}

	comparison, err := o.provider.GetDailyBar(ctx, symbol, dates.Monthly)
	if skip(err) {
		log.Debugw("skipping symbol: no comparison bar", "symbol", symbol, "date", market.FormatDate(dates.Monthly))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if comparison.Close <= 0 {
		log.Debugw("skipping symbol: invalid comparison close", "symbol", symbol, "close", comparison.Close)
		return false, nil
	}

	bars := Sessions{Current: current, Previous: previous, Comparison: comparison}
	record := BuildStockRecord(symbol, meta, bars, o.universe.MembershipTags(symbol), time.Now())
	return o.stocks.UpsertStock(ctx, record)
}

func (o *Orchestrator) fail(result *UpdateResult, err error) (*UpdateResult, error) {
	logger.Get().Errorw("batch failed", "batch", result.BatchNumber, "error", err)
	result.Success = false
	result.Message = errorMessage(err)
	return result, err
}

func skip(err error) bool {
	switch provider.Classify(err) {
	case provider.KindNotFound, provider.KindAuthDenied:
		return true
	}
	return false
}

// errorMessage prefers the internal cause of an AppError so per-symbol
// errors stay specific.
func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Internal != nil {
		return appErr.Internal.Error()
	}
	return err.Error()
}
