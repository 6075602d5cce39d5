package reminder

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/prescription"
	"github.com/medtrack/medtrack/internal/platform/timewindow"
)

func utc(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func testPrescription() *prescription.Prescription {
	return &prescription.Prescription{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		StartDate: utc("2025-11-01T00:00:00Z"),
		IsActive:  true,
	}
}

func TestOccurrencesForDate_Daily(t *testing.T) {
	p := testPrescription()
	// 08:00 local time in the reference zone.
	s := &prescription.Schedule{
		ScheduleType:  prescription.ScheduleDaily,
		ScheduledTime: utc("2025-12-01T07:00:00Z"),
		IsActive:      true,
	}

	got := OccurrencesForDate(p, s, utc("2025-12-05T12:00:00Z"))
	if len(got) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(got))
	}
	want := utc("2025-12-05T07:00:00Z")
	if !got[0].Equal(want) {
		t.Errorf("occurrence = %v, want %v", got[0], want)
	}
}

func TestOccurrencesForDate_Weekly(t *testing.T) {
	p := testPrescription()
	// Monday and Wednesday only.
	s := &prescription.Schedule{
		ScheduleType:  prescription.ScheduleWeekly,
		ScheduledTime: utc("2025-12-01T07:00:00Z"),
		DaysOfWeek:    []int{1, 3},
		IsActive:      true,
	}

	// 2025-12-03 is a Wednesday.
	if got := OccurrencesForDate(p, s, utc("2025-12-03T12:00:00Z")); len(got) != 1 {
		t.Errorf("Wednesday: expected 1 occurrence, got %d", len(got))
	}
	// 2025-12-05 is a Friday.
	if got := OccurrencesForDate(p, s, utc("2025-12-05T12:00:00Z")); len(got) != 0 {
		t.Errorf("Friday: expected no occurrences, got %d", len(got))
	}
}

func TestOccurrencesForDate_IntervalPhase(t *testing.T) {
	p := testPrescription()
	// Every 8 hours anchored at 06:00 local.
	s := &prescription.Schedule{
		ScheduleType:  prescription.ScheduleInterval,
		ScheduledTime: utc("2025-12-01T05:00:00Z"),
		IntervalHours: 8,
		IsActive:      true,
	}

	got := OccurrencesForDate(p, s, utc("2025-12-05T12:00:00Z"))
	want := []time.Time{
		utc("2025-12-05T05:00:00Z"),
		utc("2025-12-05T13:00:00Z"),
		utc("2025-12-05T21:00:00Z"),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d occurrences, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("occurrence[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOccurrencesForDate_IntervalWithinDayBounds(t *testing.T) {
	p := testPrescription()
	// 7 hours does not divide 24, so the phase drifts across days. Every
	// occurrence must still land inside the queried day window.
	s := &prescription.Schedule{
		ScheduleType:  prescription.ScheduleInterval,
		ScheduledTime: utc("2025-12-01T02:00:00Z"),
		IntervalHours: 7,
		IsActive:      true,
	}

	for day := 0; day < 10; day++ {
		date := timewindow.AddDays(utc("2025-12-01T12:00:00Z"), day)
		dayStart, dayEnd := timewindow.DayBoundsOf(date)
		got := OccurrencesForDate(p, s, date)
		for i, at := range got {
			if at.Before(dayStart) || at.After(dayEnd) {
				t.Errorf("day %d occurrence[%d] %v outside [%v, %v]", day, i, at, dayStart, dayEnd)
			}
			if i > 0 && got[i].Sub(got[i-1]) != 7*time.Hour {
				t.Errorf("day %d spacing %v, want 7h", day, got[i].Sub(got[i-1]))
			}
		}
	}
}

func TestOccurrencesForDate_MonthlySkipsShortMonths(t *testing.T) {
	p := testPrescription()
	// Anchored on the 31st at 08:00 local.
	s := &prescription.Schedule{
		ScheduleType:  prescription.ScheduleMonthly,
		ScheduledTime: utc("2026-01-31T07:00:00Z"),
		IsActive:      true,
	}

	if got := OccurrencesForDate(p, s, utc("2025-12-31T12:00:00Z")); len(got) != 1 {
		t.Errorf("Dec 31: expected 1 occurrence, got %d", len(got))
	}
	if got := OccurrencesForDate(p, s, utc("2025-11-30T12:00:00Z")); len(got) != 0 {
		t.Errorf("Nov 30: expected no occurrences, got %d", len(got))
	}
	if got := OccurrencesForDate(p, s, utc("2025-12-15T12:00:00Z")); len(got) != 0 {
		t.Errorf("Dec 15: expected no occurrences, got %d", len(got))
	}
}

func TestOccurrencesForDate_InactiveAndOutOfWindow(t *testing.T) {
	p := testPrescription()
	s := &prescription.Schedule{
		ScheduleType:  prescription.ScheduleDaily,
		ScheduledTime: utc("2025-12-01T07:00:00Z"),
		IsActive:      true,
	}

	t.Run("inactive schedule", func(t *testing.T) {
		disabled := *s
		disabled.IsActive = false
		if got := OccurrencesForDate(p, &disabled, utc("2025-12-05T12:00:00Z")); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("before prescription start", func(t *testing.T) {
		if got := OccurrencesForDate(p, s, utc("2025-10-05T12:00:00Z")); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("after prescription end", func(t *testing.T) {
		ended := *p
		end := utc("2025-12-03T22:59:59Z")
		ended.EndDate = &end
		if got := OccurrencesForDate(&ended, s, utc("2025-12-05T12:00:00Z")); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("deactivated prescription", func(t *testing.T) {
		inactive := *p
		inactive.IsActive = false
		if got := OccurrencesForDate(&inactive, s, utc("2025-12-05T12:00:00Z")); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}

func TestOccurrencesForDate_DailyCrossesUTCMidnight(t *testing.T) {
	p := testPrescription()
	// 00:30 local is 23:30 UTC of the previous calendar day. The occurrence
	// must still belong to the local day that was asked for.
	s := &prescription.Schedule{
		ScheduleType:  prescription.ScheduleDaily,
		ScheduledTime: utc("2025-12-01T23:30:00Z"),
		IsActive:      true,
	}

	got := OccurrencesForDate(p, s, utc("2025-12-05T12:00:00Z"))
	if len(got) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(got))
	}
	want := utc("2025-12-04T23:30:00Z")
	if !got[0].Equal(want) {
		t.Errorf("occurrence = %v, want %v", got[0], want)
	}
	dayStart, dayEnd := timewindow.DayBounds(2025, time.December, 5)
	if got[0].Before(dayStart) || got[0].After(dayEnd) {
		t.Errorf("occurrence %v outside local day [%v, %v]", got[0], dayStart, dayEnd)
	}
}
