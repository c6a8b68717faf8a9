package leasing

import (
	"math"
	"time"
)

// Day-boundary arithmetic is done in UTC throughout; leasing windows are
// day-granular even though instants are stored.

// StartOfDay truncates t to midnight UTC of the same calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last representable instant of t's calendar day in UTC.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// PeriodInDays returns the inclusive day count of the window, i.e. the number
// of whole days between from and to plus one day. A window from a day to the
// same instant nine days later spans ten days.
func PeriodInDays(from, to time.Time) int {
	return int(to.AddDate(0, 0, 1).Sub(from) / (24 * time.Hour))
}

// PriceCents computes the amount to place on hold for a window, in the
// payment provider's smallest currency unit.
func PriceCents(sizeM2, pricePerM2 float64, from, to time.Time) int64 {
	days := PeriodInDays(from, to)
	return int64(math.Round(sizeM2 * pricePerM2 * float64(days) * 100))
}
