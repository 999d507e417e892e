package mongostore

import (
	"context"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"marketpulse/internal/models"
	"marketpulse/internal/pagination"
	"marketpulse/internal/services"
)

// setupStore connects to MONGO_URI using a throwaway database. Tests skip
// when no server is configured.
func setupStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set; skipping mongo integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("marketpulse_test_%d", time.Now().UnixNano())
	s, err := Connect(ctx, uri, dbName)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.db.Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestStockQuery(t *testing.T) {
	q := stockQuery(services.StockFilter{Search: "a.b", Index: "Dow Jones", Country: "United States"})

	if q["indexes"] != "Dow Jones" || q["country"] != "United States" {
		t.Errorf("unexpected equality filters: %v", q)
	}
	if _, ok := q["$or"]; !ok {
		t.Fatal("expected $or clause for search")
	}

	if len(stockQuery(services.StockFilter{})) != 0 {
		t.Error("expected empty query for empty filter")
	}
}

func TestStore_UpsertStockRejectsInvalidPrice(t *testing.T) {
	// Rejected before any database call, so no server is needed.
	s := &Store{now: time.Now}
	for _, price := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		written, err := s.UpsertStock(context.Background(), &models.StockRecord{Symbol: "AAPL", Price: price})
		if err != nil || written {
			t.Errorf("price %v: expected (false, nil), got (%v, %v)", price, written, err)
		}
	}
}

func TestStore_UpsertStock(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	rec := &models.StockRecord{Symbol: "aapl", Name: "Apple", Price: 150, Indexes: []string{"Dow Jones"}}
	written, err := s.UpsertStock(ctx, rec)
	if err != nil || !written {
		t.Fatalf("expected write, got written=%v err=%v", written, err)
	}
	first, err := s.GetStock(ctx, "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	written, err = s.UpsertStock(ctx, &models.StockRecord{Symbol: "AAPL", Price: 0})
	if err != nil || written {
		t.Fatalf("expected zero price to be dropped, got written=%v err=%v", written, err)
	}

	_, err = s.UpsertStock(ctx, &models.StockRecord{Symbol: "AAPL", Name: "Apple Inc.", Price: 151})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetStock(ctx, "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Price != 151 || got.Name != "Apple Inc." {
		t.Errorf("expected overwrite, got %+v", got)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at must be insert-only: %v vs %v", first.CreatedAt, got.CreatedAt)
	}

	res, err := s.ListStocks(ctx, services.StockFilter{Search: "app"}, pagination.PageRequest{})
	if err != nil || res.TotalItems != 1 {
		t.Errorf("expected one search hit, got %+v err=%v", res, err)
	}
}

func TestStore_Checkpoints(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	cp, err := s.GetLatest(ctx)
	if err != nil || cp != nil {
		t.Fatalf("expected nil checkpoint on empty history, got %+v err=%v", cp, err)
	}

	runAt := time.Date(2026, 10, 15, 22, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return runAt }
	s.Save(ctx, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC))
	runAt = runAt.Add(time.Hour)
	s.Save(ctx, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC))

	cp, err = s.GetLatest(ctx)
	if err != nil || cp == nil {
		t.Fatalf("expected checkpoint, got err=%v", err)
	}
	if cp.LastUpdateDate != "2026-10-16" {
		t.Errorf("expected latest 2026-10-16, got %s", cp.LastUpdateDate)
	}
}
