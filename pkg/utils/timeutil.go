package utils

import (
	"time"
)

// Eastern is the US Eastern time location used for market hours.
var Eastern *time.Location

func init() {
	var err error
	Eastern, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		Eastern = time.FixedZone("EST", -5*60*60)
	}
}

// NowEastern returns the current time in US Eastern time.
func NowEastern() time.Time {
	return time.Now().In(Eastern)
}

// MarketOpenTime returns the NYSE opening time (9:30 AM ET) for a given date.
func MarketOpenTime(date time.Time) time.Time {
	d := date.In(Eastern)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 30, 0, 0, Eastern)
}

// MarketCloseTime returns the NYSE closing time (4:00 PM ET) for a given date.
func MarketCloseTime(date time.Time) time.Time {
	d := date.In(Eastern)
	return time.Date(d.Year(), d.Month(), d.Day(), 16, 0, 0, 0, Eastern)
}

// IsMarketOpen checks if the NYSE is currently open.
func IsMarketOpen() bool {
	return IsMarketOpenAt(NowEastern())
}

// IsMarketOpenAt checks if the NYSE would be open at the given time.
func IsMarketOpenAt(t time.Time) bool {
	t = t.In(Eastern)

	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	if IsTradingHoliday(t) {
		return false
	}

	open := MarketOpenTime(t)
	close := MarketCloseTime(t)
	return !t.Before(open) && !t.After(close)
}

// IsTradingDay checks if the given date is a trading day (not weekend, not holiday).
func IsTradingDay(t time.Time) bool {
	t = t.In(Eastern)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !IsTradingHoliday(t)
}

// NextTradingDay returns the next trading day from the given date.
// If the given date is a trading day, it returns the next one.
func NextTradingDay(from time.Time) time.Time {
	next := from.In(Eastern).AddDate(0, 0, 1)
	for !IsTradingDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// IsTradingHoliday checks if the given date is an NYSE trading holiday.
// This list should be updated annually.
func IsTradingHoliday(t time.Time) bool {
	t = t.In(Eastern)
	_, ok := tradingHolidays[t.Format("2006-01-02")]
	return ok
}

// NYSE trading holidays for 2026 (update annually).
var tradingHolidays = map[string]string{
	"2026-01-01": "New Year's Day",
	"2026-01-19": "Martin Luther King Jr. Day",
	"2026-02-16": "Presidents' Day",
	"2026-04-03": "Good Friday",
	"2026-05-25": "Memorial Day",
	"2026-06-19": "Juneteenth",
	"2026-07-03": "Independence Day (observed)",
	"2026-09-07": "Labor Day",
	"2026-11-26": "Thanksgiving Day",
	"2026-12-25": "Christmas Day",
}

// DayKey formats a time.Time to the "2006-01-02" key used for daily records.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Layouts tried by ParseNewsTime, most specific first.
var newsTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseNewsTime parses the timestamp formats seen in news feeds and APIs.
func ParseNewsTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range newsTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// MarketStatus returns the current market status string.
func MarketStatus() string {
	now := NowEastern()
	if IsMarketOpenAt(now) {
		return "OPEN"
	}
	if !IsTradingDay(now) {
		return "CLOSED (non-trading day)"
	}
	if now.Before(MarketOpenTime(now)) {
		return "CLOSED (pre-market)"
	}
	return "CLOSED (after hours)"
}
