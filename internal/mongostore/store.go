// Package mongostore implements the stock and checkpoint persistence
// contracts on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "marketpulse/internal/errors"
	"marketpulse/internal/logger"
	"marketpulse/internal/market"
	"marketpulse/internal/models"
	"marketpulse/internal/pagination"
	"marketpulse/internal/services"
)

// Collection names.
const (
	StocksCollection  = "stocks"
	HistoryCollection = "update_history"
)

// Store holds the MongoDB client and database handle.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

var (
	_ services.StockServicer      = (*Store)(nil)
	_ services.CheckpointServicer = (*Store)(nil)
)

// Connect dials MongoDB, verifies the connection and ensures indexes.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &Store{client: client, db: client.Database(database), now: time.Now}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the unique symbol index and the history sort index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.stocks().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "symbol", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create stocks index: %w", err)
	}
	_, err = s.history().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "last_update_time", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create update_history index: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) stocks() *mongo.Collection  { return s.db.Collection(StocksCollection) }
func (s *Store) history() *mongo.Collection { return s.db.Collection(HistoryCollection) }

// UpsertStock updates the document keyed by symbol, setting created_at only
// on insert. Prices that are not finite and positive are dropped.
func (s *Store) UpsertStock(ctx context.Context, stock *models.StockRecord) (bool, error) {
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
		stock.LastUpdated = s.now().UTC()
	}
	if stock.Indexes == nil {
		stock.Indexes = []string{}
	}

	update := bson.M{
		"$set": bson.M{
			"name":                       stock.Name,
			"country":                    stock.Country,
			"exchange":                   stock.Exchange,
			"currency":                   stock.Currency,
			"market_cap":                 stock.MarketCap,
			"price":                      stock.Price,
			"changes":                    stock.Changes,
			"changes_percentage":         stock.ChangesPercentage,
			"monthly_changes":            stock.MonthlyChanges,
			"monthly_changes_percentage": stock.MonthlyChangesPercentage,
			"indexes":                    stock.Indexes,
			"trading_date":               stock.TradingDate,
			"last_updated":               stock.LastUpdated,
		},
		"$setOnInsert": bson.M{
			"symbol":     stock.Symbol,
			"created_at": s.now().UTC(),
		},
	}

	_, err := s.stocks().UpdateOne(ctx,
		bson.M{"symbol": stock.Symbol},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

// GetStock returns a stock by symbol.
func (s *Store) GetStock(ctx context.Context, symbol string) (*models.StockRecord, error) {
	var stock models.StockRecord
	err := s.stocks().FindOne(ctx, bson.M{"symbol": strings.ToUpper(symbol)}).Decode(&stock)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrStockNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stock, nil
}

// ListStocks returns a filtered, sorted, paginated list of stocks.
func (s *Store) ListStocks(ctx context.Context, filter services.StockFilter, page pagination.PageRequest) (*pagination.PageResponse[models.StockRecord], error) {
	page.Defaults()

	query := stockQuery(filter)
	total, err := s.stocks().CountDocuments(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	column, ok := models.StockSortFields[filter.Sort.SortBy]
	if !ok {
		column = "symbol"
	}
	direction := 1
	if filter.Sort.Desc() {
		direction = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: column, Value: direction}, {Key: "symbol", Value: 1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.PageSize))

	cur, err := s.stocks().Find(ctx, query, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var stocks []models.StockRecord
	if err := cur.All(ctx, &stocks); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(stocks, page.Page, page.PageSize, total)
	return &result, nil
}

func stockQuery(filter services.StockFilter) bson.M {
	query := bson.M{}
	if q := strings.TrimSpace(filter.Search); q != "" {
		pattern := regexp.QuoteMeta(q)
		query["$or"] = bson.A{
			bson.M{"symbol": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if filter.Index != "" {
		query["indexes"] = filter.Index
	}
	if filter.Country != "" {
		query["country"] = filter.Country
	}
	return query
}

// ListIndexes returns the distinct classification tags.
func (s *Store) ListIndexes(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "indexes")
}

// ListCountries returns the distinct countries.
func (s *Store) ListCountries(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "country")
}

func (s *Store) distinct(ctx context.Context, field string) ([]string, error) {
	values, err := s.stocks().Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if str, ok := v.(string); ok && str != "" {
			out = append(out, str)
		}
	}
	sort.Strings(out)
	return out, nil
}

// GetLatest returns the most recent checkpoint, or nil when none exist.
func (s *Store) GetLatest(ctx context.Context) (*models.UpdateCheckpoint, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "last_update_time", Value: -1}})

	var cp models.UpdateCheckpoint
	err := s.history().FindOne(ctx, bson.M{}, opts).Decode(&cp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cp, nil
}

// Save appends a checkpoint. Failures are logged and swallowed.
func (s *Store) Save(ctx context.Context, currentDate, monthlyDate time.Time) {
	now := s.now().UTC()
	cp := models.UpdateCheckpoint{
		Base:            models.Base{ID: models.NewID(), CreatedAt: now},
		LastUpdateDate:  market.FormatDate(currentDate),
		LastMonthlyDate: market.FormatDate(monthlyDate),
		LastUpdateTime:  now,
		TotalUpdates:    1,
	}
	if _, err := s.history().InsertOne(ctx, cp); err != nil {
		logger.Get().Errorw("failed to save update checkpoint",
			"last_update_date", cp.LastUpdateDate,
			"last_monthly_date", cp.LastMonthlyDate,
			"error", err,
		)
		return
	}
	logger.Get().Infow("update checkpoint saved",
		"id", cp.ID,
		"last_update_date", cp.LastUpdateDate,
		"last_monthly_date", cp.LastMonthlyDate,
	)
}

// ListHistory returns checkpoints newest first.
func (s *Store) ListHistory(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.UpdateCheckpoint], error) {
	page.Defaults()

	total, err := s.history().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "last_update_time", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.PageSize))
	cur, err := s.history().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var rows []models.UpdateCheckpoint
	if err := cur.All(ctx, &rows); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(rows, page.Page, page.PageSize, total)
	return &result, nil
}
