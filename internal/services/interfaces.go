package services

import (
	"context"
	"time"

	"marketpulse/internal/models"
	"marketpulse/internal/pagination"
)

// StockFilter holds optional filter parameters for listing stocks.
type StockFilter struct {
	Search  string // case-insensitive match on symbol or name
	Index   string // exact classification tag, e.g. "NASDAQ 100" or "Large Cap"
	Country string
	Sort    pagination.SortRequest
}

// StockServicer defines the persistence contract for stock records.
type StockServicer interface {
	// UpsertStock inserts or overwrites the record keyed by symbol. Records
	// with a non-positive price are dropped and reported as not written.
	UpsertStock(ctx context.Context, stock *models.StockRecord) (bool, error)
	GetStock(ctx context.Context, symbol string) (*models.StockRecord, error)
	ListStocks(ctx context.Context, filter StockFilter, page pagination.PageRequest) (*pagination.PageResponse[models.StockRecord], error)
	ListIndexes(ctx context.Context) ([]string, error)
	ListCountries(ctx context.Context) ([]string, error)
}

// CheckpointServicer defines the contract for the update history log.
type CheckpointServicer interface {
	// GetLatest returns the most recent checkpoint, or nil when none exist.
	GetLatest(ctx context.Context) (*models.UpdateCheckpoint, error)
	// Save appends a checkpoint. Failures are logged, never returned.
	Save(ctx context.Context, currentDate, monthlyDate time.Time)
	ListHistory(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.UpdateCheckpoint], error)
}
