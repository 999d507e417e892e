package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"marketpulse/internal/app"
	"marketpulse/internal/config"
	"marketpulse/internal/ingest"
	"marketpulse/internal/logger"
	"marketpulse/internal/scheduler"
	"marketpulse/internal/universe"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "ingest",
		Short:        "Run MarketPulse stock ingestion batches",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(cfg), newAllCmd(cfg), newPlanCmd(cfg))
	return root
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	var req ingest.UpdateRequest

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single batch",
		Example: `  ingest run --batch 1
  ingest run --batch 3 --total 11 --force
  ingest run --batch 2 --current-date 2026-10-15 --monthly-date 2026-09-16`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(ctx context.Context, a *app.App) error {
				res, err := a.Orchestrator.UpdateStocks(ctx, req)
				if res != nil {
					if werr := writeJSON(cmd.OutOrStdout(), res); werr != nil {
						return werr
					}
				}
				return err
			})
		},
	}

	cmd.Flags().IntVar(&req.BatchNumber, "batch", 1, "1-based batch number")
	cmd.Flags().IntVar(&req.TotalBatches, "total", cfg.TotalBatches, "total number of batches")
	cmd.Flags().BoolVar(&req.ForceUpdate, "force", false, "ignore the last checkpoint when picking dates")
	cmd.Flags().StringVar(&req.CurrentDate, "current-date", "", "pin the current trading date (YYYY-MM-DD); needs --monthly-date")
	cmd.Flags().StringVar(&req.MonthlyDate, "monthly-date", "", "pin the comparison date (YYYY-MM-DD); needs --current-date")
	return cmd
}

func newAllCmd(cfg *config.Config) *cobra.Command {
	var total int
	var force bool

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run every batch in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(ctx context.Context, a *app.App) error {
				results := scheduler.RunAll(ctx, a.Orchestrator, total, force)
				return writeJSON(cmd.OutOrStdout(), results)
			})
		},
	}

	cmd.Flags().IntVar(&total, "total", cfg.TotalBatches, "total number of batches")
	cmd.Flags().BoolVar(&force, "force", false, "ignore the last checkpoint when picking dates")
	return cmd
}

// newPlanCmd prints the batch layout without touching the store or provider.
func newPlanCmd(cfg *config.Config) *cobra.Command {
	var total int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show which symbols each batch covers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPlan(cmd.OutOrStdout(), universe.Default(), total, cfg.BatchSize)
		},
	}

	cmd.Flags().IntVar(&total, "total", cfg.TotalBatches, "total number of batches")
	return cmd
}

func printPlan(w io.Writer, u *universe.Universe, total, batchSize int) error {
	if total < 1 {
		return fmt.Errorf("total must be at least 1, got %d", total)
	}
	if batchSize <= 0 {
		batchSize = u.BatchSizeFor(total)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "BATCH\tRANGE\tSYMBOLS\tFIRST\tLAST\n")
	for batch := 1; batch <= total; batch++ {
		plan, err := u.PlanBatch(batch, total, batchSize)
		if err != nil {
			return err
		}
		first, last := "-", "-"
		if !plan.Empty() {
			first, last = plan.Symbols[0], plan.Symbols[len(plan.Symbols)-1]
		}
		fmt.Fprintf(tw, "%d/%d\t[%d,%d)\t%d\t%s\t%s\n",
			batch, total, plan.StartIndex, plan.EndIndex, len(plan.Symbols), first, last)
	}
	fmt.Fprintf(tw, "\nuniverse: %d symbols, batch size %d\n", u.Len(), batchSize)
	return tw.Flush()
}

// withApp builds the application, runs fn with a signal-aware context and
// closes the stores afterwards.
func withApp(cfg *config.Config, fn func(ctx context.Context, a *app.App) error) error {
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
			logger.Get().Warnw("failed to close store", "error", err)
		}
	}()

	return fn(ctx, a)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
