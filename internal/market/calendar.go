// Package market provides weekday-based trading calendar helpers anchored to
// the exchange's local timezone.
package market

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by the provider and checkpoints.
const DateLayout = "2006-01-02"

// Calendar answers trading-day questions relative to "now" in a fixed
// timezone. A trading day is any weekday; holidays are not modelled.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar creates a Calendar for the named IANA timezone.
func NewCalendar(timezone string) (*Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	return &Calendar{loc: loc, now: time.Now}, nil
}

// NewCalendarAt creates a Calendar whose clock is fixed by now. Used by tests
// and tooling that need deterministic dates.
func NewCalendarAt(loc *time.Location, now func() time.Time) *Calendar {
	return &Calendar{loc: loc, now: now}
}

// Location returns the calendar's timezone.
func (c *Calendar) Location() *time.Location { return c.loc }

// Now returns the current wall time in the calendar's timezone.
func (c *Calendar) Now() time.Time { return c.now().In(c.loc) }

// Today returns midnight of the current calendar day in the calendar's timezone.
func (c *Calendar) Today() time.Time {
	return Midnight(c.Now())
}

// CurrentTradingDay returns today, or the preceding Friday when today falls
// on a weekend.
func (c *Calendar) CurrentTradingDay() time.Time {
	return PreviousWeekday(c.Today())
}

// NDaysAgoSkippingWeekends subtracts n calendar days from today and walks
// back to the nearest weekday.
func (c *Calendar) NDaysAgoSkippingWeekends(n int) time.Time {
	return PreviousWeekday(c.Today().AddDate(0, 0, -n))
}

// IsWeekend reports whether d falls on a Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// PreviousWeekday returns d itself when it is a weekday, otherwise the
// closest earlier weekday.
func PreviousWeekday(d time.Time) time.Time {
	for IsWeekend(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// NextWeekdayAfter returns the first weekday strictly after d.
func NextWeekdayAfter(d time.Time) time.Time {
	next := d.AddDate(0, 0, 1)
	for IsWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Midnight truncates t to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatDate renders d using DateLayout.
func FormatDate(d time.Time) string { return d.Format(DateLayout) }

// ParseDate parses a DateLayout string into midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}
