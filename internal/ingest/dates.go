package ingest

import (
	"time"

	"marketpulse/internal/logger"
	"marketpulse/internal/market"
	"marketpulse/internal/models"
)

// Default offsets, in calendar days, before weekend adjustment.
const (
	currentOffsetDays = 1
	monthlyOffsetDays = 29
	monthlyWindowDays = 30
)

// Dates is the pair of trading dates one run fetches bars for.
type Dates struct {
	Current time.Time
	Monthly time.Time
}

// DefaultDates returns the checkpoint-independent date pair.
func DefaultDates(cal *market.Calendar) Dates {
	return Dates{
		Current: cal.NDaysAgoSkippingWeekends(currentOffsetDays),
		Monthly: cal.NDaysAgoSkippingWeekends(monthlyOffsetDays),
	}
}

// SelectDates picks the dates for the next run. A recent checkpoint shifts
// each date to the first weekday after the one it recorded; force ignores
// the checkpoint.
func SelectDates(cal *market.Calendar, cp *models.UpdateCheckpoint, force bool) Dates {
	dates := DefaultDates(cal)
	if force || cp == nil {
		return dates
	}

	if next, ok := nextCurrentDate(cal, cp); ok {
		dates.Current = next
	}

	if last, ok := parseCheckpointDate(cal, cp.LastMonthlyDate); ok {
		threshold := cal.Today().AddDate(0, 0, -monthlyWindowDays)
		if !last.Before(threshold) {
			dates.Monthly = market.NextWeekdayAfter(last)
		}
	}
	return dates
}

// NextTradingDateFor returns the "current" date a run would use given cp.
func NextTradingDateFor(cal *market.Calendar, cp *models.UpdateCheckpoint) time.Time {
	if cp != nil {
		if next, ok := nextCurrentDate(cal, cp); ok {
			return next
		}
	}
	return DefaultDates(cal).Current
}

// nextCurrentDate applies the forward shift when the checkpoint's update
// date is today or yesterday.
func nextCurrentDate(cal *market.Calendar, cp *models.UpdateCheckpoint) (time.Time, bool) {
	last, ok := parseCheckpointDate(cal, cp.LastUpdateDate)
	if !ok {
		return time.Time{}, false
	}
	today := cal.Today()
	if market.SameDay(last, today) || market.SameDay(last, today.AddDate(0, 0, -1)) {
		return market.NextWeekdayAfter(last), true
	}
	return time.Time{}, false
}

func parseCheckpointDate(cal *market.Calendar, s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := market.ParseDate(s, cal.Location())
	if err != nil {
		logger.Get().Warnw("ignoring malformed checkpoint date", "date", s, "error", err)
		return time.Time{}, false
	}
	return d, true
}
