// Package dates holds the small pure date helpers used by the decision
// engine. All threshold math runs on millisecond differences so that a
// boundary of exactly N days counts as N days elapsed.
package dates

import "time"

const millisPerDay = 24 * 60 * 60 * 1000

// DaysBetween returns the fractional number of days between then and now.
func DaysBetween(now, then time.Time) float64 {
	return float64(now.Sub(then).Milliseconds()) / float64(millisPerDay)
}

// IsMoreRecentThan reports whether d is strictly after reference.
func IsMoreRecentThan(d, reference time.Time) bool {
	return d.After(reference)
}

// IsValid reports whether the timestamp carries a usable value.
func IsValid(d time.Time) bool {
	return !d.IsZero()
}

// Humanize renders a timestamp the way it appears in bot comments.
func Humanize(d time.Time) string {
	return d.UTC().Format("January 2, 2006")
}
