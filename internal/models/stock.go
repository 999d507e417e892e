package models

import (
	"math"
	"time"
)

// Market capitalisation tags derived from a stock's market cap.
const (
	CapLarge = "Large Cap"
	CapMid   = "Mid Cap"
	CapSmall = "Small Cap"
)

// Market cap thresholds in USD.
const (
	LargeCapThreshold = 10e9
	MidCapThreshold   = 2e9
)

// StockRecord is the latest ingested snapshot of one ticker. Symbol is the
// natural key and never changes once created.
type StockRecord struct {
	Symbol                   string    `gorm:"type:varchar(16);primaryKey" json:"symbol" bson:"symbol"`
	Name                     string    `gorm:"not null;default:''" json:"name" bson:"name"`
	Country                  string    `gorm:"index" json:"country" bson:"country"`
	Exchange                 string    `json:"exchange,omitempty" bson:"exchange,omitempty"`
	Currency                 string    `gorm:"default:'USD'" json:"currency" bson:"currency"`
	MarketCap                float64   `gorm:"not null;default:0" json:"market_cap" bson:"market_cap"`
	Price                    float64   `gorm:"not null" json:"price" bson:"price"`
	Changes                  float64   `json:"changes" bson:"changes"`
	ChangesPercentage        float64   `json:"changes_percentage" bson:"changes_percentage"`
	MonthlyChanges           float64   `json:"monthly_changes" bson:"monthly_changes"`
	MonthlyChangesPercentage float64   `json:"monthly_changes_percentage" bson:"monthly_changes_percentage"`
	Indexes                  []string  `gorm:"serializer:json;type:text" json:"indexes" bson:"indexes"`
	TradingDate              string    `gorm:"type:varchar(10)" json:"trading_date" bson:"trading_date"`
	LastUpdated              time.Time `gorm:"not null;index" json:"last_updated" bson:"last_updated"`
	CreatedAt                time.Time `json:"created_at" bson:"created_at"`
}

// TableName pins the table to "stocks".
func (StockRecord) TableName() string { return "stocks" }

// CapTag classifies a market capitalisation.
func CapTag(marketCap float64) string {
	switch {
	case marketCap > LargeCapThreshold:
		return CapLarge
	case marketCap > MidCapThreshold:
		return CapMid
	default:
		return CapSmall
	}
}

// ValidPrice reports whether p can be stored as a price: finite and positive.
func ValidPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// StockSortFields maps API sort keys to columns.
var StockSortFields = map[string]string{
	"symbol":                     "symbol",
	"name":                       "name",
	"price":                      "price",
	"market_cap":                 "market_cap",
	"changes":                    "changes",
	"changes_percentage":         "changes_percentage",
	"monthly_changes_percentage": "monthly_changes_percentage",
	"last_updated":               "last_updated",
}
