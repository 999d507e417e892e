package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "marketpulse/internal/errors"
	"marketpulse/internal/pagination"
	"marketpulse/internal/services"
)

// StockHandler serves read-only stock queries.
type StockHandler struct {
	stockService services.StockServicer
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService services.StockServicer) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// ListStocksQuery holds filter, sort and page parameters for listing stocks.
type ListStocksQuery struct {
	pagination.PageRequest
	pagination.SortRequest
	Search  string `form:"search" binding:"omitempty,max=50"`
	Index   string `form:"index" binding:"omitempty,max=50"`
	Country string `form:"country" binding:"omitempty,max=100"`
}

// ListStocks handles listing stocks.
// @Summary     List stocks
// @Description Get a paginated list of ingested stocks with optional filters and sorting
// @Tags        stocks
// @Produce     json
// @Param       search     query string false "Search by symbol or name (case-insensitive)"
// @Param       index      query string false "Filter by index or cap tag, e.g. NASDAQ 100 or Large Cap"
// @Param       country    query string false "Filter by country"
// @Param       sort_by    query string false "Sort field" Enums(symbol, name, price, market_cap, changes, changes_percentage, monthly_changes_percentage, last_updated)
// @Param       sort_order query string false "Sort order" Enums(asc, desc)
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.StockRecord] "Paginated stocks"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stocks [get]
func (h *StockHandler) ListStocks(c *gin.Context) {
	var q ListStocksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.StockFilter{
		Search:  q.Search,
		Index:   q.Index,
		Country: q.Country,
		Sort:    q.SortRequest,
	}
	result, err := h.stockService.ListStocks(c.Request.Context(), filter, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStock handles fetching a single stock.
// @Summary     Get stock
// @Description Get the latest ingested record for a symbol
// @Tags        stocks
// @Produce     json
// @Param       symbol path string true "Ticker symbol"
// @Success     200 {object} map[string]models.StockRecord "Stock"
// @Failure     400 {object} ErrorResponse "Invalid symbol"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stocks/{symbol} [get]
func (h *StockHandler) GetStock(c *gin.Context) {
	var uri struct {
		Symbol string `uri:"symbol" binding:"required,ticker"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid symbol"))
		return
	}

	stock, err := h.stockService.GetStock(c.Request.Context(), strings.ToUpper(uri.Symbol))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stock": stock})
}

// ListIndexes handles listing distinct classification tags.
// @Summary     List stock indexes
// @Description Get the distinct index and market-cap tags across all stocks
// @Tags        stocks
// @Produce     json
// @Success     200 {object} map[string][]string "Index tags"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stock-indexes [get]
func (h *StockHandler) ListIndexes(c *gin.Context) {
	indexes, err := h.stockService.ListIndexes(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"indexes": indexes})
}

// ListCountries handles listing distinct countries.
// @Summary     List stock countries
// @Description Get the distinct countries across all stocks
// @Tags        stocks
// @Produce     json
// @Success     200 {object} map[string][]string "Countries"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stock-countries [get]
func (h *StockHandler) ListCountries(c *gin.Context) {
	countries, err := h.stockService.ListCountries(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"countries": countries})
}
