package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"marketpulse/internal/ingest"
	"marketpulse/internal/market"
	"marketpulse/internal/provider"
	"marketpulse/internal/services"
	"marketpulse/internal/testutil"
	"marketpulse/internal/universe"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	previousDate = "2026-10-14"
	currentDate  = "2026-10-15"
	monthlyDate  = "2026-09-17"
)

type testEnv struct {
	router *gin.Engine
	fake   *provider.Fake
}

// setupTestEnv wires the real services, orchestrator and router over an
// in-memory database and a fake provider. The calendar is fixed to Friday
// 2026-10-16 so default dates are currentDate and monthlyDate.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	cal := market.NewCalendarAt(loc, func() time.Time {
		return time.Date(2026, 10, 16, 18, 0, 0, 0, loc)
	})

	fake := provider.NewFake()
	caps := map[string]float64{"AAPL": 3e12, "MSFT": 2.9e12, "PLUG": 1.5e9}
	for sym, mcap := range caps {
		fake.AddTicker(provider.TickerMetadata{Symbol: sym, Name: sym + " Corp", Locale: "us", Currency: "USD", MarketCap: mcap})
		fake.AddBar(provider.DailyBar{Symbol: sym, Date: previousDate, Close: 100})
		fake.AddBar(provider.DailyBar{Symbol: sym, Date: currentDate, Open: 104, Close: 110})
		fake.AddBar(provider.DailyBar{Symbol: sym, Date: monthlyDate, Close: 88})
	}

	u := universe.New(0,
		universe.NamedList{Name: universe.IndexNasdaq100, Symbols: []string{"AAPL", "MSFT"}},
		universe.NamedList{Name: universe.IndexSP500, Symbols: []string{"PLUG", "NOPE"}},
	)

	stocks := services.NewStockService(db)
	checkpoints := services.NewCheckpointService(db)
	orch := ingest.NewOrchestrator(fake, stocks, checkpoints, u, cal, ingest.Options{BatchSize: 2})

	return &testEnv{
		router: New(Deps{Stocks: stocks, Checkpoints: checkpoints, Updater: orch}),
		fake:   fake,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var result map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return rec.Code, result
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)
	code, body := env.do(t, http.MethodGet, "/api/health", "")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response %d %v", code, body)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/stocks", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestUpdateFlow(t *testing.T) {
	env := setupTestEnv(t)

	// Batch 1: AAPL, MSFT.
	code, body := env.do(t, http.MethodPost, "/api/v1/stocks/update", `{"batch_number":1,"total_batches":2,"force_update":true}`)
	if code != http.StatusOK {
		t.Fatalf("batch 1: expected 200, got %d: %v", code, body)
	}
	if body["processed"] != float64(2) || body["next_batch"] != float64(2) {
		t.Fatalf("batch 1: unexpected result %v", body)
	}
	if body["current_date"] != currentDate || body["monthly_date"] != monthlyDate {
		t.Errorf("batch 1: unexpected dates %v / %v", body["current_date"], body["monthly_date"])
	}

	// Batch 2: PLUG, plus NOPE which the provider does not know.
	code, body = env.do(t, http.MethodPost, "/api/v1/stocks/update", `{"batch_number":2,"total_batches":2,"force_update":true}`)
	if code != http.StatusOK {
		t.Fatalf("batch 2: expected 200, got %d: %v", code, body)
	}
	if body["processed"] != float64(1) {
		t.Errorf("batch 2: expected 1 processed, got %v", body["processed"])
	}
	if _, ok := body["next_batch"]; ok {
		t.Errorf("batch 2: expected no next_batch, got %v", body["next_batch"])
	}
	if errs := body["errors"].([]interface{}); len(errs) != 0 {
		t.Errorf("batch 2: unknown symbol must not be an error, got %v", errs)
	}

	t.Run("get_stock", func(t *testing.T) {
		code, body := env.do(t, http.MethodGet, "/api/v1/stocks/aapl", "")
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		stock := body["stock"].(map[string]interface{})
		if stock["price"] != float64(110) || stock["changes"] != float64(10) || stock["changes_percentage"] != float64(10) {
			t.Errorf("unexpected daily change %v", stock)
		}
		if stock["monthly_changes"] != float64(22) || stock["monthly_changes_percentage"] != float64(25) {
			t.Errorf("unexpected monthly change %v", stock)
		}
		if stock["country"] != "United States" || stock["currency"] != "USD" {
			t.Errorf("unexpected country/currency %v", stock)
		}
	})

	t.Run("unknown_symbol_not_stored", func(t *testing.T) {
		code, body := env.do(t, http.MethodGet, "/api/v1/stocks/NOPE", "")
		if code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %v", code, body)
		}
	})

	t.Run("list_by_index", func(t *testing.T) {
		code, body := env.do(t, http.MethodGet, "/api/v1/stocks?index=Small+Cap", "")
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		data := body["data"].([]interface{})
		if len(data) != 1 || data[0].(map[string]interface{})["symbol"] != "PLUG" {
			t.Errorf("expected only PLUG, got %v", data)
		}
	})

	t.Run("list_sorted", func(t *testing.T) {
		_, body := env.do(t, http.MethodGet, "/api/v1/stocks?sort_by=market_cap&sort_order=desc", "")
		data := body["data"].([]interface{})
		if len(data) != 3 || data[0].(map[string]interface{})["symbol"] != "AAPL" {
			t.Errorf("expected AAPL first, got %v", data)
		}
	})

	t.Run("distinct_values", func(t *testing.T) {
		_, body := env.do(t, http.MethodGet, "/api/v1/stock-indexes", "")
		if n := len(body["indexes"].([]interface{})); n != 4 {
			t.Errorf("expected 4 tags, got %v", body["indexes"])
		}
		_, body = env.do(t, http.MethodGet, "/api/v1/stock-countries", "")
		if c := body["countries"].([]interface{}); len(c) != 1 || c[0] != "United States" {
			t.Errorf("unexpected countries %v", c)
		}
	})

	t.Run("status_and_history", func(t *testing.T) {
		code, body := env.do(t, http.MethodGet, "/api/v1/update-status", "")
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		latest := body["latest_checkpoint"].(map[string]interface{})
		if latest["last_update_date"] != currentDate || latest["last_monthly_date"] != monthlyDate {
			t.Errorf("unexpected checkpoint %v", latest)
		}
		if body["universe_size"] != float64(4) {
			t.Errorf("expected universe_size 4, got %v", body["universe_size"])
		}

		_, body = env.do(t, http.MethodGet, "/api/v1/update-history", "")
		if body["total_items"] != float64(2) {
			t.Errorf("expected 2 checkpoints, got %v", body["total_items"])
		}
	})
}

func TestUpdateSurvivesClientDisconnect(t *testing.T) {
	env := setupTestEnv(t)

	reqCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.fake.Hook = func(_ context.Context, symbol string) {
		if symbol == "MSFT" {
			cancel()
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/stocks/update",
		strings.NewReader(`{"batch_number":1,"total_batches":2,"force_update":true}`)).WithContext(reqCtx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if reqCtx.Err() == nil {
		t.Fatal("expected the request context to be cancelled mid-batch")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse JSON response: %v", err)
	}
	if body["processed"] != float64(2) {
		t.Errorf("expected both symbols processed, got %v", body)
	}
	if errs := body["errors"].([]interface{}); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestUpdateRejectsInvalidBatch(t *testing.T) {
	env := setupTestEnv(t)
	code, body := env.do(t, http.MethodPost, "/api/v1/stocks/update", `{"batch_number":0,"total_batches":2}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if env.fake.TotalCalls() != 0 {
		t.Errorf("expected no provider calls, got %d", env.fake.TotalCalls())
	}
	errObj := body["error"].(map[string]interface{})
	if errObj["code"] != "INVALID_BATCH" {
		t.Errorf("unexpected error %v", errObj)
	}
}
