// Package timewindow implements calendar-day arithmetic in the fixed
// reference timezone used for all scheduling decisions (Africa/Tunis,
// UTC+1, no daylight-saving transitions). Every function works on
// explicit instants and never consults the process-local timezone, so
// results are identical regardless of the host's TZ setting.
package timewindow

import "time"

// Zone is the fixed reference timezone. The offset is a constant +01:00;
// Tunisia does not observe daylight-saving time.
var Zone = time.FixedZone("Africa/Tunis", 60*60)

// DayBounds returns the UTC instant range covering local midnight to
// midnight of the given calendar day in Zone. The end instant is inclusive
// at millisecond precision: for 2025-12-05 the window is
// [2025-12-04T23:00:00Z, 2025-12-05T22:59:59.999Z].
func DayBounds(year int, month time.Month, day int) (startUTC, endUTC time.Time) {
	start := time.Date(year, month, day, 0, 0, 0, 0, Zone)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start.UTC(), end.UTC()
}

// DayBoundsOf returns DayBounds for the calendar day containing t in Zone.
func DayBoundsOf(t time.Time) (startUTC, endUTC time.Time) {
	y, m, d := t.In(Zone).Date()
	return DayBounds(y, m, d)
}

// AtTimeOfDay combines the calendar day of date with the local time-of-day
// of clock, both interpreted in Zone, and returns the resulting UTC instant.
// Schedules store their time-of-day as an absolute instant whose clock
// component is reused on each occurrence day.
func AtTimeOfDay(date, clock time.Time) time.Time {
	y, m, d := date.In(Zone).Date()
	h, min, sec := clock.In(Zone).Clock()
	return time.Date(y, m, d, h, min, sec, 0, Zone).UTC()
}

// Weekday returns the ISO weekday of t in Zone: Monday=1 .. Sunday=7.
func Weekday(t time.Time) int {
	wd := int(t.In(Zone).Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DayOfMonth returns the day-of-month of t in Zone.
func DayOfMonth(t time.Time) int {
	return t.In(Zone).Day()
}

// ISOWeek returns the ISO 8601 year and week number of t in Zone.
func ISOWeek(t time.Time) (year, week int) {
	return t.In(Zone).ISOWeek()
}

// SameDay reports whether a and b fall on the same calendar day in Zone.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(Zone).Date()
	by, bm, bd := b.In(Zone).Date()
	return ay == by && am == bm && ad == bd
}

// AddDays returns the instant shifted by n calendar days in Zone, keeping
// the local time-of-day. With a fixed offset this is equivalent to adding
// n*24h, but going through the zone keeps the intent explicit.
func AddDays(t time.Time, n int) time.Time {
	return t.In(Zone).AddDate(0, 0, n).UTC()
}
