package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"marketpulse/internal/models"
	"marketpulse/internal/provider"
)

const metricPlaces = 4

var hundred = decimal.NewFromInt(100)

// countries maps provider locales to display names.
var countries = map[string]string{
	"us":     "United States",
	"ca":     "Canada",
	"gb":     "United Kingdom",
	"uk":     "United Kingdom",
	"de":     "Germany",
	"jp":     "Japan",
	"global": "Global",
}

// Change returns price minus reference and the change as a percentage of
// reference. The percentage is 0 when reference is not positive.
func Change(price, reference float64) (float64, float64) {
	p := decimal.NewFromFloat(price)
	ref := decimal.NewFromFloat(reference)

	diff := p.Sub(ref)
	pct := decimal.Zero
	if ref.IsPositive() {
		pct = diff.Div(ref).Mul(hundred)
	}
	return diff.Round(metricPlaces).InexactFloat64(), pct.Round(metricPlaces).InexactFloat64()
}

// CountryForLocale maps a provider locale to a country name. Unknown
// locales are returned upper-cased.
func CountryForLocale(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	if name, ok := countries[l]; ok {
		return name
	}
	return strings.ToUpper(l)
}

// ClassificationTags returns the index memberships followed by the cap tag.
func ClassificationTags(memberships []string, marketCap float64) []string {
	tags := make([]string, 0, len(memberships)+1)
	tags = append(tags, memberships...)
	return append(tags, models.CapTag(marketCap))
}

// Sessions are the bars a stock record is derived from. Previous may be nil
// when the provider has no earlier session in range.
type Sessions struct {
	Current    *provider.DailyBar
	Previous   *provider.DailyBar
	Comparison *provider.DailyBar
}

// BuildStockRecord derives a StockRecord from provider data. The day change
// is measured against the previous session's close and is zero when that
// close is unavailable.
func BuildStockRecord(symbol string, meta *provider.TickerMetadata, bars Sessions, memberships []string, now time.Time) *models.StockRecord {
	current := bars.Current
	var changes, changesPct float64
	if bars.Previous != nil && bars.Previous.Close > 0 {
		changes, changesPct = Change(current.Close, bars.Previous.Close)
	}
	monthly, monthlyPct := Change(current.Close, bars.Comparison.Close)

	name := meta.Name
	if name == "" {
		name = symbol
	}
	currency := meta.Currency
	if currency == "" {
		currency = "USD"
	}

	return &models.StockRecord{
		Symbol:                   strings.ToUpper(symbol),
		Name:                     name,
		Country:                  CountryForLocale(meta.Locale),
		Exchange:                 meta.PrimaryExchange,
		Currency:                 currency,
		MarketCap:                meta.MarketCap,
		Price:                    current.Close,
		Changes:                  changes,
		ChangesPercentage:        changesPct,
		MonthlyChanges:           monthly,
		MonthlyChangesPercentage: monthlyPct,
		Indexes:                  ClassificationTags(memberships, meta.MarketCap),
		TradingDate:              current.Date,
		LastUpdated:              now.UTC(),
	}
}
