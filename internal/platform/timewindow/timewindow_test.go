package timewindow

import (
	"testing"
	"time"
)

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(2025, time.December, 5)

	wantStart := time.Date(2025, time.December, 4, 23, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}

	wantEnd := time.Date(2025, time.December, 5, 22, 59, 59, 999000000, time.UTC)
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestDayBoundsIndependentOfHostZone(t *testing.T) {
	// An instant late in the UTC day still belongs to the next local day.
	tokyo := time.FixedZone("Asia/Tokyo", 9*60*60)
	instant := time.Date(2025, time.December, 5, 8, 30, 0, 0, tokyo) // 2025-12-04T23:30Z

	start, _ := DayBoundsOf(instant)
	wantStart := time.Date(2025, time.December, 4, 23, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v (instant should bucket into local Dec 5)", start, wantStart)
	}
}

func TestAtTimeOfDay(t *testing.T) {
	// 08:00 local = 07:00 UTC.
	clock := time.Date(2020, time.January, 1, 7, 0, 0, 0, time.UTC)
	date := time.Date(2025, time.December, 5, 0, 0, 0, 0, Zone)

	got := AtTimeOfDay(date, clock)
	want := time.Date(2025, time.December, 5, 7, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AtTimeOfDay = %v, want %v", got, want)
	}
}

func TestWeekday(t *testing.T) {
	cases := []struct {
		date time.Time
		want int
	}{
		{time.Date(2025, time.December, 1, 12, 0, 0, 0, Zone), 1}, // Monday
		{time.Date(2025, time.December, 3, 12, 0, 0, 0, Zone), 3}, // Wednesday
		{time.Date(2025, time.December, 7, 12, 0, 0, 0, Zone), 7}, // Sunday
	}
	for _, tc := range cases {
		if got := Weekday(tc.date); got != tc.want {
			t.Errorf("Weekday(%v) = %d, want %d", tc.date, got, tc.want)
		}
	}
}

func TestWeekdayAcrossUTCBoundary(t *testing.T) {
	// 23:30 UTC on Tuesday is already Wednesday locally.
	instant := time.Date(2025, time.December, 2, 23, 30, 0, 0, time.UTC)
	if got := Weekday(instant); got != 3 {
		t.Errorf("Weekday = %d, want 3 (local Wednesday)", got)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, time.December, 4, 23, 30, 0, 0, time.UTC) // local Dec 5
	b := time.Date(2025, time.December, 5, 10, 0, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("expected instants to share local calendar day Dec 5")
	}
	c := time.Date(2025, time.December, 4, 22, 30, 0, 0, time.UTC) // local Dec 4
	if SameDay(a, c) {
		t.Error("expected instants on different local days")
	}
}

func TestAddDays(t *testing.T) {
	d := time.Date(2025, time.December, 31, 7, 0, 0, 0, time.UTC)
	got := AddDays(d, 1)
	want := time.Date(2026, time.January, 1, 7, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddDays = %v, want %v", got, want)
	}
}

func TestISOWeek(t *testing.T) {
	// 2025-12-29 falls in ISO week 1 of 2026.
	y, w := ISOWeek(time.Date(2025, time.December, 29, 12, 0, 0, 0, Zone))
	if y != 2026 || w != 1 {
		t.Errorf("ISOWeek = %d-W%d, want 2026-W1", y, w)
	}
}
