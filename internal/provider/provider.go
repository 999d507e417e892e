// Package provider defines the interface for fetching ticker metadata and
// daily bars from an external market-data source.
package provider

import (
	"context"
	"time"
)

// TickerMetadata describes a listed security as reported by the provider.
type TickerMetadata struct {
	Symbol          string
	Name            string
	Locale          string
	PrimaryExchange string
	Currency        string
	MarketCap       float64
}

// DailyBar is the open/high/low/close summary of one trading session.
type DailyBar struct {
	Symbol string
	Date   string // YYYY-MM-DD
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// MarketDataProvider fetches reference and end-of-day data for single symbols.
// Implementations never retry; callers decide how to react using Classify.
type MarketDataProvider interface {
	// Name returns the provider's display name.
	Name() string

	// GetTickerMetadata returns metadata for symbol, or an error wrapping
	// ErrNotFound when the provider does not know the symbol.
	GetTickerMetadata(ctx context.Context, symbol string) (*TickerMetadata, error)

	// GetDailyBar returns the session summary for symbol on date. Weekends,
	// holidays and plan limitations surface as ErrNotFound.
	GetDailyBar(ctx context.Context, symbol string, date time.Time) (*DailyBar, error)

	// GetPreviousClose returns the last session strictly before date within
	// PreviousSessionLookback, or an error wrapping ErrNotFound.
	GetPreviousClose(ctx context.Context, symbol string, date time.Time) (*DailyBar, error)
}

// PreviousSessionLookback bounds the search for the previous session. It
// spans long weekends and exchange holidays.
const PreviousSessionLookback = 10 * 24 * time.Hour
