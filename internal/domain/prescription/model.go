package prescription

import (
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/platform/timewindow"
)

// Prescription maps to the prescription table: a patient's medication order.
// Prescriptions are soft-deleted (DeletedAt) so offline clients can learn
// about removals through sync.
type Prescription struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	MedicationID uuid.UUID  `db:"medication_id" json:"medication_id"`
	PrescribedBy uuid.UUID  `db:"prescribed_by" json:"prescribed_by"`
	CustomDosage *string    `db:"custom_dosage" json:"custom_dosage,omitempty"`
	Instructions *string    `db:"instructions" json:"instructions,omitempty"`
	StartDate    time.Time  `db:"start_date" json:"start_date"`
	EndDate      *time.Time `db:"end_date" json:"end_date,omitempty"`
	IsChronic    bool       `db:"is_chronic" json:"is_chronic"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	DeletedAt    *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ActiveOn reports whether the prescription produces reminders on the given
// calendar day: not deleted, active, and the day overlaps
// [StartDate, EndDate] (EndDate nil means indefinite).
func (p *Prescription) ActiveOn(date time.Time) bool {
	if p.DeletedAt != nil || !p.IsActive {
		return false
	}
	dayStart, dayEnd := timewindow.DayBoundsOf(date)
	if p.StartDate.After(dayEnd) {
		return false
	}
	if p.EndDate != nil && p.EndDate.Before(dayStart) {
		return false
	}
	return true
}

// ScheduleType enumerates the recurrence shapes a schedule can take.
type ScheduleType string

const (
	ScheduleDaily    ScheduleType = "daily"
	ScheduleWeekly   ScheduleType = "weekly"
	ScheduleInterval ScheduleType = "interval"
	ScheduleMonthly  ScheduleType = "monthly"
	ScheduleCustom   ScheduleType = "custom"
)

var validScheduleTypes = map[ScheduleType]bool{
	ScheduleDaily:    true,
	ScheduleWeekly:   true,
	ScheduleInterval: true,
	ScheduleMonthly:  true,
	ScheduleCustom:   true,
}

// Schedule maps to the medication_schedule table: one recurrence rule
// attached to a prescription. ScheduledTime is stored as an absolute instant
// whose time-of-day component (in the reference zone) is reused on each
// occurrence day; for monthly schedules its day-of-month is the anchor.
type Schedule struct {
	ID             uuid.UUID    `db:"id" json:"id"`
	PrescriptionID uuid.UUID    `db:"prescription_id" json:"prescription_id"`
	ScheduleType   ScheduleType `db:"schedule_type" json:"schedule_type"`
	ScheduledTime  time.Time    `db:"scheduled_time" json:"scheduled_time"`
	DaysOfWeek     []int        `db:"days_of_week" json:"days_of_week,omitempty"`
	IntervalHours  int          `db:"interval_hours" json:"interval_hours,omitempty"`
	IsActive       bool         `db:"is_active" json:"is_active"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// Validate enforces exactly one interpretation per schedule type: daily and
// monthly ignore DaysOfWeek and IntervalHours, weekly/custom require a
// non-empty weekday set, interval requires IntervalHours > 0.
func (s *Schedule) Validate() error {
	if !validScheduleTypes[s.ScheduleType] {
		return validationf("invalid schedule_type: %s", s.ScheduleType)
	}
	if s.ScheduledTime.IsZero() {
		return validationf("scheduled_time is required")
	}
	switch s.ScheduleType {
	case ScheduleWeekly, ScheduleCustom:
		if len(s.DaysOfWeek) == 0 {
			return validationf("days_of_week is required for %s schedules", s.ScheduleType)
		}
		for _, d := range s.DaysOfWeek {
			if d < 1 || d > 7 {
				return validationf("days_of_week values must be 1-7 (Monday=1), got %d", d)
			}
		}
	case ScheduleInterval:
		if s.IntervalHours <= 0 {
			return validationf("interval_hours must be positive for interval schedules")
		}
	}
	return nil
}
