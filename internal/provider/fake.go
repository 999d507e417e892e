package provider

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Fake is an in-memory MarketDataProvider for tests and dry runs. Bars are
// keyed by symbol and YYYY-MM-DD date. Unknown symbols and dates return an
// error wrapping ErrNotFound.
type Fake struct {
	mu sync.Mutex

	Metadata map[string]TickerMetadata
	Bars     map[string]map[string]DailyBar

	// MetadataErrors and BarErrors force an error for a symbol.
	MetadataErrors map[string]error
	BarErrors      map[string]error

	// Hook runs before every call, e.g. to block or cancel in tests.
	Hook func(ctx context.Context, symbol string)

	metadataCalls map[string]int
	barCalls      map[string]int
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{
		Metadata:       make(map[string]TickerMetadata),
		Bars:           make(map[string]map[string]DailyBar),
		MetadataErrors: make(map[string]error),
		BarErrors:      make(map[string]error),
		metadataCalls:  make(map[string]int),
		barCalls:       make(map[string]int),
	}
}

// AddTicker registers metadata for a symbol.
func (f *Fake) AddTicker(meta TickerMetadata) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Metadata[strings.ToUpper(meta.Symbol)] = meta
	return f
}

// AddBar registers a daily bar for bar.Symbol on bar.Date.
func (f *Fake) AddBar(bar DailyBar) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	sym := strings.ToUpper(bar.Symbol)
	if f.Bars[sym] == nil {
		f.Bars[sym] = make(map[string]DailyBar)
	}
	f.Bars[sym][bar.Date] = bar
	return f
}

// FailMetadata makes GetTickerMetadata return err for symbol.
func (f *Fake) FailMetadata(symbol string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MetadataErrors[strings.ToUpper(symbol)] = err
	return f
}

// FailBars makes GetDailyBar return err for symbol on every date.
func (f *Fake) FailBars(symbol string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BarErrors[strings.ToUpper(symbol)] = err
	return f
}

// Name returns "fake".
func (f *Fake) Name() string { return "fake" }

// GetTickerMetadata returns the registered metadata for symbol.
func (f *Fake) GetTickerMetadata(ctx context.Context, symbol string) (*TickerMetadata, error) {
	if f.Hook != nil {
		f.Hook(ctx, symbol)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sym := strings.ToUpper(symbol)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadataCalls[sym]++

	if err, ok := f.MetadataErrors[sym]; ok {
		return nil, err
	}
	meta, ok := f.Metadata[sym]
	if !ok {
		return nil, &APIError{StatusCode: 404, Status: "NOT_FOUND", Message: "ticker not found", Endpoint: "/fake/" + sym}
	}
	return &meta, nil
}

// GetDailyBar returns the registered bar for symbol on date.
func (f *Fake) GetDailyBar(ctx context.Context, symbol string, date time.Time) (*DailyBar, error) {
	if f.Hook != nil {
		f.Hook(ctx, symbol)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sym := strings.ToUpper(symbol)
	day := date.Format("2006-01-02")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.barCalls[sym]++

	if err, ok := f.BarErrors[sym]; ok {
		return nil, err
	}
	bar, ok := f.Bars[sym][day]
	if !ok {
		return nil, &APIError{StatusCode: 404, Status: "NOT_FOUND", Message: "no bar for " + day, Endpoint: "/fake/" + sym + "/" + day}
	}
	return &bar, nil
}

// GetPreviousClose returns the latest registered bar before date within
// PreviousSessionLookback.
func (f *Fake) GetPreviousClose(ctx context.Context, symbol string, date time.Time) (*DailyBar, error) {
	if f.Hook != nil {
		f.Hook(ctx, symbol)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sym := strings.ToUpper(symbol)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.barCalls[sym]++

	if err, ok := f.BarErrors[sym]; ok {
		return nil, err
	}
	for d := date.AddDate(0, 0, -1); !d.Before(date.Add(-PreviousSessionLookback)); d = d.AddDate(0, 0, -1) {
		if bar, ok := f.Bars[sym][d.Format("2006-01-02")]; ok {
			return &bar, nil
		}
	}
	return nil, &APIError{StatusCode: 404, Status: "NOT_FOUND", Message: "no previous session", Endpoint: "/fake/" + sym + "/prev"}
}

// MetadataCalls returns how many times metadata was requested for symbol.
func (f *Fake) MetadataCalls(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.metadataCalls[strings.ToUpper(symbol)]
}

// BarCalls returns how many bars were requested for symbol.
func (f *Fake) BarCalls(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.barCalls[strings.ToUpper(symbol)]
}

// TotalCalls returns the number of provider calls across all symbols.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.metadataCalls {
		n += c
	}
	for _, c := range f.barCalls {
		n += c
	}
	return n
}
