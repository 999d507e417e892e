package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "marketpulse/internal/errors"
	"marketpulse/internal/models"
	"marketpulse/internal/pagination"
	"marketpulse/internal/services"
)

// --- mock stock service ---

type mockStockService struct {
	upsertStockFn   func(ctx context.Context, stock *models.StockRecord) (bool, error)
	getStockFn      func(ctx context.Context, symbol string) (*models.StockRecord, error)
	listStocksFn    func(ctx context.Context, filter services.StockFilter, page pagination.PageRequest) (*pagination.PageResponse[models.StockRecord], error)
	listIndexesFn   func(ctx context.Context) ([]string, error)
	listCountriesFn func(ctx context.Context) ([]string, error)
}

var _ services.StockServicer = (*mockStockService)(nil)

func (m *mockStockService) UpsertStock(ctx context.Context, stock *models.StockRecord) (bool, error) {
	if m.upsertStockFn != nil {
		return m.upsertStockFn(ctx, stock)
	}
	return true, nil
}

func (m *mockStockService) GetStock(ctx context.Context, symbol string) (*models.StockRecord, error) {
	if m.getStockFn != nil {
		return m.getStockFn(ctx, symbol)
	}
	return &models.StockRecord{Symbol: symbol}, nil
}

func (m *mockStockService) ListStocks(ctx context.Context, filter services.StockFilter, page pagination.PageRequest) (*pagination.PageResponse[models.StockRecord], error) {
	if m.listStocksFn != nil {
		return m.listStocksFn(ctx, filter, page)
	}
	resp := pagination.NewPageResponse([]models.StockRecord{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockStockService) ListIndexes(ctx context.Context) ([]string, error) {
	if m.listIndexesFn != nil {
		return m.listIndexesFn(ctx)
	}
	return []string{}, nil
}

func (m *mockStockService) ListCountries(ctx context.Context) ([]string, error) {
	if m.listCountriesFn != nil {
		return m.listCountriesFn(ctx)
	}
	return []string{}, nil
}

// --- router setup ---

func setupStockRouter(handler *StockHandler) *gin.Engine {
	r := gin.New()
	r.GET("/stocks", handler.ListStocks)
	r.GET("/stocks/:symbol", handler.GetStock)
	r.GET("/stock-indexes", handler.ListIndexes)
	r.GET("/stock-countries", handler.ListCountries)
	return r
}

func TestListStocks(t *testing.T) {
	t.Run("passes_filters_through", func(t *testing.T) {
		var gotFilter services.StockFilter
		var gotPage pagination.PageRequest
		svc := &mockStockService{
			listStocksFn: func(_ context.Context, filter services.StockFilter, page pagination.PageRequest) (*pagination.PageResponse[models.StockRecord], error) {
				gotFilter, gotPage = filter, page
				resp := pagination.NewPageResponse([]models.StockRecord{{Symbol: "AAPL", Price: 190}}, 2, 5, 6)
				return &resp, nil
			},
		}
		r := setupStockRouter(NewStockHandler(svc))

		rec := doRequest(r, http.MethodGet, "/stocks?search=app&index=Large+Cap&country=United+States&sort_by=price&sort_order=desc&page=2&page_size=5", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Search != "app" || gotFilter.Index != "Large Cap" || gotFilter.Country != "United States" {
			t.Errorf("unexpected filter %+v", gotFilter)
		}
		if gotFilter.Sort.SortBy != "price" || !gotFilter.Sort.Desc() {
			t.Errorf("unexpected sort %+v", gotFilter.Sort)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("unexpected page %+v", gotPage)
		}

		body := parseJSON(t, rec)
		if body["total_items"] != float64(6) {
			t.Errorf("expected total_items 6, got %v", body["total_items"])
		}
	})

	t.Run("invalid_sort_field", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{}))
		rec := doRequest(r, http.MethodGet, "/stocks?sort_by=password", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("invalid_page_size", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{}))
		rec := doRequest(r, http.MethodGet, "/stocks?page_size=1000", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("service_error", func(t *testing.T) {
		svc := &mockStockService{
			listStocksFn: func(context.Context, services.StockFilter, pagination.PageRequest) (*pagination.PageResponse[models.StockRecord], error) {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down"))
			},
		}
		r := setupStockRouter(NewStockHandler(svc))
		rec := doRequest(r, http.MethodGet, "/stocks", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}

func TestGetStock(t *testing.T) {
	t.Run("found_upper_cases_symbol", func(t *testing.T) {
		var got string
		svc := &mockStockService{
			getStockFn: func(_ context.Context, symbol string) (*models.StockRecord, error) {
				got = symbol
				return &models.StockRecord{Symbol: symbol, Price: 120}, nil
			},
		}
		r := setupStockRouter(NewStockHandler(svc))
		rec := doRequest(r, http.MethodGet, "/stocks/brk.b", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got != "BRK.B" {
			t.Errorf("expected BRK.B, got %s", got)
		}
		stock := parseJSON(t, rec)["stock"].(map[string]interface{})
		if stock["price"] != float64(120) {
			t.Errorf("unexpected stock %v", stock)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc := &mockStockService{
			getStockFn: func(context.Context, string) (*models.StockRecord, error) {
				return nil, apperrors.ErrStockNotFound
			},
		}
		r := setupStockRouter(NewStockHandler(svc))
		rec := doRequest(r, http.MethodGet, "/stocks/ZZZZ", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "STOCK_NOT_FOUND")
	})

	t.Run("invalid_symbol", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{}))
		rec := doRequest(r, http.MethodGet, "/stocks/WAY_TOO_LONG_SYMBOL", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestDistinctValues(t *testing.T) {
	svc := &mockStockService{
		listIndexesFn:   func(context.Context) ([]string, error) { return []string{"Dow Jones", "Large Cap"}, nil },
		listCountriesFn: func(context.Context) ([]string, error) { return []string{"United States"}, nil },
	}
	r := setupStockRouter(NewStockHandler(svc))

	rec := doRequest(r, http.MethodGet, "/stock-indexes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if idx := parseJSON(t, rec)["indexes"].([]interface{}); len(idx) != 2 {
		t.Errorf("expected 2 indexes, got %v", idx)
	}

	rec = doRequest(r, http.MethodGet, "/stock-countries", "")
	if countries := parseJSON(t, rec)["countries"].([]interface{}); len(countries) != 1 || countries[0] != "United States" {
		t.Errorf("unexpected countries %v", countries)
	}
}
