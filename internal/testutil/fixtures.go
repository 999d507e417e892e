package testutil

import (
	"testing"
	"time"

	"marketpulse/internal/models"

	"gorm.io/gorm"
)

// NewTestStock returns an unsaved large-cap US stock with the given price.
func NewTestStock(symbol string, price float64) *models.StockRecord {
	return &models.StockRecord{
		Symbol:      symbol,
		Name:        symbol + " Corp",
		Country:     "United States",
		Exchange:    "XNAS",
		Currency:    "USD",
		MarketCap:   50e9,
		Price:       price,
		Indexes:     []string{"S&P 500", models.CapLarge},
		TradingDate: "2026-10-16",
		LastUpdated: time.Date(2026, 10, 16, 21, 0, 0, 0, time.UTC),
	}
}

// CreateTestStock inserts a stock with the given symbol and price.
func CreateTestStock(t *testing.T, db *gorm.DB, symbol string, price float64) *models.StockRecord {
	t.Helper()

	stock := NewTestStock(symbol, price)
	if err := db.Create(stock).Error; err != nil {
		t.Fatalf("failed to create test stock: %v", err)
	}
	return stock
}

// CreateTestCheckpoint inserts an update checkpoint recorded at runAt.
func CreateTestCheckpoint(t *testing.T, db *gorm.DB, updateDate, monthlyDate string, runAt time.Time) *models.UpdateCheckpoint {
	t.Helper()

	cp := &models.UpdateCheckpoint{
		LastUpdateDate:  updateDate,
		LastMonthlyDate: monthlyDate,
		LastUpdateTime:  runAt,
		TotalUpdates:    1,
	}
	if err := db.Create(cp).Error; err != nil {
		t.Fatalf("failed to create test checkpoint: %v", err)
	}
	return cp
}
