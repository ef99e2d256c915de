package service

import (
	"time"

	"github.com/facturio/facturio-api/internal/domain/enum"
)

// DateOnly truncates a timestamp to a UTC calendar date. All schedule
// arithmetic works on these; there are no time-of-day semantics.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextOccurrence returns the next run date after the anchor: +7 days for
// WEEKLY, +1 calendar month for MONTHLY, +1 year for YEARLY. Monthly and
// yearly steps preserve the day-of-month, clamping to the last valid day of
// the target month (Jan 31 -> Feb 28, Feb 29 -> Feb 28 on non-leap years).
// The result is always strictly after the anchor.
//
// Chaining from the previous run date, rather than recomputing from the
// start date or from "today", is what keeps the schedule drift-free after a
// missed run window.
func NextOccurrence(anchor time.Time, frequency enum.Frequency) time.Time {
	d := DateOnly(anchor)
	switch frequency {
	case enum.FrequencyWeekly:
		return d.AddDate(0, 0, 7)
	case enum.FrequencyYearly:
		return addMonthsClamped(d, 12)
	default:
		return addMonthsClamped(d, 1)
	}
}

// addMonthsClamped advances by whole months without the normalization
// time.AddDate would do (Jan 31 + 1 month must be Feb 28, not Mar 3).
func addMonthsClamped(d time.Time, months int) time.Time {
	first := time.Date(d.Year(), d.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := d.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
