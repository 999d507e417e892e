package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	polygonBaseURL = "https://api.polygon.io"
	maxErrorBody   = 4 << 10
)

// PolygonConfig configures a PolygonProvider. Zero values fall back to
// defaults where noted.
type PolygonConfig struct {
	APIKey  string
	BaseURL string // default https://api.polygon.io

	// Timeout bounds each HTTP request; ignored when HTTPClient is set.
	Timeout time.Duration

	// MinInterval is the minimum spacing between consecutive requests.
	// Zero disables the limiter.
	MinInterval time.Duration

	// FailureThreshold consecutive failures open the circuit for Cooldown.
	// Zero disables the breaker.
	FailureThreshold int
	Cooldown         time.Duration

	HTTPClient *http.Client
}

// polygonTickerResponse is the /v3/reference/tickers/{ticker} payload.
type polygonTickerResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	Results   struct {
		Ticker          string  `json:"ticker"`
		Name            string  `json:"name"`
		Locale          string  `json:"locale"`
		PrimaryExchange string  `json:"primary_exchange"`
		CurrencyName    string  `json:"currency_name"`
		MarketCap       float64 `json:"market_cap"`
	} `json:"results"`
}

// polygonOpenCloseResponse is the /v1/open-close/{ticker}/{date} payload.
type polygonOpenCloseResponse struct {
	Status string  `json:"status"`
	From   string  `json:"from"`
	Symbol string  `json:"symbol"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// polygonAggsResponse is the /v2/aggs/ticker/{ticker}/range payload.
type polygonAggsResponse struct {
	Status       string `json:"status"`
	Ticker       string `json:"ticker"`
	ResultsCount int    `json:"resultsCount"`
	Results      []struct {
		Open      float64 `json:"o"`
		High      float64 `json:"h"`
		Low       float64 `json:"l"`
		Close     float64 `json:"c"`
		Volume    float64 `json:"v"`
		Timestamp int64   `json:"t"` // session start, Unix ms
	} `json:"results"`
}

// polygonErrorResponse covers the error shapes Polygon returns.
type polygonErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// PolygonProvider fetches ticker metadata and daily bars from Polygon.io.
type PolygonProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	breaker    *breaker
}

// NewPolygonProvider creates a Polygon.io provider from cfg.
func NewPolygonProvider(cfg PolygonConfig) *PolygonProvider {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = polygonBaseURL
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &PolygonProvider{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(limit, 1),
		breaker:    newBreaker(cfg.FailureThreshold, cfg.Cooldown),
	}
}

// Name returns the provider's display name.
func (p *PolygonProvider) Name() string { return "Polygon.io" }

// CircuitState exposes the breaker state for status reporting.
func (p *PolygonProvider) CircuitState() CircuitState { return p.breaker.State() }

// GetTickerMetadata fetches reference data for symbol.
func (p *PolygonProvider) GetTickerMetadata(ctx context.Context, symbol string) (*TickerMetadata, error) {
	path := "/v3/reference/tickers/" + url.PathEscape(symbol)

	var resp polygonTickerResponse
	if err := p.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Results.Ticker == "" {
		return nil, &APIError{StatusCode: http.StatusNotFound, Status: resp.Status, Message: "empty ticker results", Endpoint: path}
	}

	return &TickerMetadata{
		Symbol:          resp.Results.Ticker,
		Name:            resp.Results.Name,
		Locale:          resp.Results.Locale,
		PrimaryExchange: resp.Results.PrimaryExchange,
		Currency:        strings.ToUpper(resp.Results.CurrencyName),
		MarketCap:       resp.Results.MarketCap,
	}, nil
}

// GetDailyBar fetches the adjusted open/close summary for symbol on date.
func (p *PolygonProvider) GetDailyBar(ctx context.Context, symbol string, date time.Time) (*DailyBar, error) {
	day := date.Format("2006-01-02")
	path := "/v1/open-close/" + url.PathEscape(symbol) + "/" + day

	var resp polygonOpenCloseResponse
	if err := p.get(ctx, path, url.Values{"adjusted": {"true"}}, &resp); err != nil {
		return nil, err
	}

	return &DailyBar{
		Symbol: resp.Symbol,
		Date:   day,
		Open:   resp.Open,
		High:   resp.High,
		Low:    resp.Low,
		Close:  resp.Close,
		Volume: resp.Volume,
	}, nil
}

// GetPreviousClose fetches the latest daily aggregate before date.
func (p *PolygonProvider) GetPreviousClose(ctx context.Context, symbol string, date time.Time) (*DailyBar, error) {
	from := date.Add(-PreviousSessionLookback).Format("2006-01-02")
	to := date.AddDate(0, 0, -1).Format("2006-01-02")
	path := "/v2/aggs/ticker/" + url.PathEscape(symbol) + "/range/1/day/" + from + "/" + to

	params := url.Values{
		"adjusted": {"true"},
		"sort":     {"desc"},
		"limit":    {"1"},
	}
	var resp polygonAggsResponse
	if err := p.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, &APIError{StatusCode: http.StatusNotFound, Status: resp.Status, Message: "no sessions before " + date.Format("2006-01-02"), Endpoint: path}
	}

	agg := resp.Results[0]
	return &DailyBar{
		Symbol: symbol,
		Date:   time.UnixMilli(agg.Timestamp).UTC().Format("2006-01-02"),
		Open:   agg.Open,
		High:   agg.High,
		Low:    agg.Low,
		Close:  agg.Close,
		Volume: agg.Volume,
	}, nil
}

// get waits for the limiter, performs a GET request and decodes the JSON
// body into result. Non-2xx responses become *APIError.
func (p *PolygonProvider) get(ctx context.Context, path string, params url.Values, result interface{}) (err error) {
	if err := p.breaker.allow(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer func() { p.breaker.record(err) }()

	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", p.apiKey)
	reqURL := p.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response %s: %w", path, err)
	}

	// Polygon occasionally answers 200 with an error status in the body.
	var status polygonErrorResponse
	if json.Unmarshal(body, &status) == nil && isErrorStatus(status.Status) {
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     status.Status,
			Message:    firstNonEmpty(status.Message, status.Error),
			Endpoint:   path,
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decoding response %s: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response, path string) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Endpoint: path}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload polygonErrorResponse
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Status = payload.Status
		apiErr.Message = firstNonEmpty(payload.Message, payload.Error)
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

func isErrorStatus(status string) bool {
	switch strings.ToUpper(status) {
	case "NOT_FOUND", "NOT_AUTHORIZED", "ERROR":
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
