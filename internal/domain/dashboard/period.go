package dashboard

import (
	"fmt"
	"time"
)

// Revenue timeframes. The timeframe selects the calendar unit payments are
// bucketed by; the report window is always the requested year.
const (
	TimeframeDaily     = "daily"
	TimeframeMonthly   = "monthly"
	TimeframeQuarterly = "quarterly"
)

// ParsePeriod maps a period query parameter to inclusive bounds ending now.
// Supported values: 7days, 30days (default), 90days, year.
func ParsePeriod(period string, now time.Time) (PeriodBounds, error) {
	if period == "" {
		period = "30days"
	}
	var from time.Time
	switch period {
	case "7days":
		from = now.AddDate(0, 0, -7)
	case "30days":
		from = now.AddDate(0, 0, -30)
	case "90days":
		from = now.AddDate(0, 0, -90)
	case "year":
		from = now.AddDate(-1, 0, 0)
	default:
		return PeriodBounds{}, fmt.Errorf("invalid period %q (want 7days, 30days, 90days or year)", period)
	}
	return PeriodBounds{From: from, To: now}, nil
}

// YearBounds returns the calendar-year window for the revenue report.
func YearBounds(year int) PeriodBounds {
	return PeriodBounds{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
}

// MonthBounds returns the calendar-month window for the monthly report.
func MonthBounds(year, month int) PeriodBounds {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return PeriodBounds{
		From: from,
		To:   from.AddDate(0, 1, 0).Add(-time.Second),
	}
}

// DayBounds returns the single-day window for the daily huddle.
func DayBounds(day time.Time) PeriodBounds {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return PeriodBounds{From: from, To: from.AddDate(0, 0, 1).Add(-time.Second)}
}
