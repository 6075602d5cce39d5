package reminder

import (
	"time"

	"github.com/medtrack/medtrack/internal/domain/prescription"
	"github.com/medtrack/medtrack/internal/platform/timewindow"
)

// OccurrencesForDate expands one schedule into the concrete UTC instants it
// fires at on the given calendar day. An inactive schedule, or a day outside
// the prescription window, yields nothing. Results are ordered ascending;
// interval schedules may fire several times in one day, every other type at
// most once.
func OccurrencesForDate(p *prescription.Prescription, s *prescription.Schedule, date time.Time) []time.Time {
	if !s.IsActive || !p.ActiveOn(date) {
		return nil
	}

	switch s.ScheduleType {
	case prescription.ScheduleDaily:
		return []time.Time{timewindow.AtTimeOfDay(date, s.ScheduledTime)}

	case prescription.ScheduleWeekly, prescription.ScheduleCustom:
		wd := timewindow.Weekday(date)
		for _, d := range s.DaysOfWeek {
			if d == wd {
				return []time.Time{timewindow.AtTimeOfDay(date, s.ScheduledTime)}
			}
		}
		return nil

	case prescription.ScheduleMonthly:
		// The anchor day-of-month is the one ScheduledTime falls on. Months
		// without that day (e.g. day 31 in April) simply skip.
		if timewindow.DayOfMonth(date) != timewindow.DayOfMonth(s.ScheduledTime) {
			return nil
		}
		return []time.Time{timewindow.AtTimeOfDay(date, s.ScheduledTime)}

	case prescription.ScheduleInterval:
		return intervalOccurrences(s, date)
	}
	return nil
}

// intervalOccurrences walks the fixed-step series anchored at ScheduledTime
// and collects the instants that land inside the day window. The phase is
// preserved across days: an 8-hour schedule anchored at 06:00 fires at
// 06:00, 14:00, 22:00 every day regardless of which day is queried.
func intervalOccurrences(s *prescription.Schedule, date time.Time) []time.Time {
	step := time.Duration(s.IntervalHours) * time.Hour
	dayStart, _ := timewindow.DayBoundsOf(date)

	first := s.ScheduledTime
	if first.Before(dayStart) {
		diff := dayStart.Sub(first)
		n := diff / step
		if diff%step != 0 {
			n++
		}
		first = first.Add(n * step)
	}

	var out []time.Time
	for t := first; timewindow.SameDay(t, date); t = t.Add(step) {
		out = append(out, t)
	}
	return out
}
