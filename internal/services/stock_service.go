package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "marketpulse/internal/errors"
	"marketpulse/internal/models"
	"marketpulse/internal/pagination"
)

// upsertColumns are overwritten on conflict. created_at is insert-only.
var upsertColumns = []string{
	"name", "country", "exchange", "currency", "market_cap", "price",
	"changes", "changes_percentage", "monthly_changes", "monthly_changes_percentage",
	"indexes", "trading_date", "last_updated",
}

// stockService persists stock records with GORM.
type stockService struct {
	db *gorm.DB
}

// NewStockService creates a new StockServicer.
func NewStockService(db *gorm.DB) StockServicer {
	return &stockService{db: db}
}

// UpsertStock writes the record keyed by symbol.
func (s *stockService) UpsertStock(ctx context.Context, stock *models.StockRecord) (bool, error) {
	if stock == nil {
		return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Stock is required")
	}
	stock.Symbol = strings.ToUpper(strings.TrimSpace(stock.Symbol))
	if stock.Symbol == "" {
		return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required")
	}
	if !models.ValidPrice(stock.Price) {
		return false, nil
	}
	if stock.LastUpdated.IsZero() {
		stock.LastUpdated = time.Now().UTC()
	}
	if stock.Indexes == nil {
		stock.Indexes = []string{}
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(stock).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

// GetStock returns a stock by symbol.
func (s *stockService) GetStock(ctx context.Context, symbol string) (*models.StockRecord, error) {
	var stock models.StockRecord
	err := s.db.WithContext(ctx).Where("symbol = ?", strings.ToUpper(symbol)).First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stock, nil
}

// ListStocks returns a filtered, sorted, paginated list of stocks.
func (s *stockService) ListStocks(ctx context.Context, filter StockFilter, page pagination.PageRequest) (*pagination.PageResponse[models.StockRecord], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.StockRecord{})
	if q := strings.TrimSpace(filter.Search); q != "" {
		like := "%" + escapeLike(strings.ToUpper(q)) + "%"
		base = base.Where(`UPPER(symbol) LIKE ? ESCAPE '\' OR UPPER(name) LIKE ? ESCAPE '\'`, like, like)
	}
	if filter.Index != "" {
		// Indexes is stored as a JSON array; match the element as encoded.
		tag, err := json.Marshal(filter.Index)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
		}
		base = base.Where(`indexes LIKE ? ESCAPE '\'`, "%"+escapeLike(string(tag))+"%")
	}
	if filter.Country != "" {
		base = base.Where("country = ?", filter.Country)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	column, ok := models.StockSortFields[filter.Sort.SortBy]
	if !ok {
		column = "symbol"
	}
	order := clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: filter.Sort.Desc()}

	var stocks []models.StockRecord
	if err := base.Order(order).Scopes(pagination.Paginate(page)).Find(&stocks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(stocks, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListIndexes returns the distinct classification tags across all stocks.
func (s *stockService) ListIndexes(ctx context.Context) ([]string, error) {
	var rows []models.StockRecord
	if err := s.db.WithContext(ctx).Select("indexes").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	seen := make(map[string]struct{})
	for _, r := range rows {
		for _, tag := range r.Indexes {
			seen[tag] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

// ListCountries returns the distinct countries across all stocks.
func (s *stockService) ListCountries(ctx context.Context) ([]string, error) {
	var countries []string
	err := s.db.WithContext(ctx).Model(&models.StockRecord{}).
		Where("country <> ''").
		Distinct("country").
		Order("country ASC").
		Pluck("country", &countries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if countries == nil {
		countries = []string{}
	}
	return countries, nil
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
