package adherence

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/reminder"
)

var (
	ErrNotFound   = errors.New("patient not found")
	ErrValidation = errors.New("validation failed")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// DoseRecord is one reminder joined with its medication, the unit the
// aggregation consumes.
type DoseRecord struct {
	MedicationID   uuid.UUID       `db:"medication_id"`
	MedicationName string          `db:"medication_name"`
	Status         reminder.Status `db:"status"`
	ScheduledFor   time.Time       `db:"scheduled_for"`
	SnoozedUntil   *time.Time      `db:"snoozed_until"`
}

// Report is the adherence summary over a trailing window of days.
// Cancelled doses are excluded everywhere; they carry no obligation.
type Report struct {
	PatientID    uuid.UUID              `json:"patient_id"`
	WindowDays   int                    `json:"window_days"`
	From         time.Time              `json:"from"`
	To           time.Time              `json:"to"`
	Rate         int                    `json:"rate"`
	Taken        int                    `json:"taken"`
	Missed       int                    `json:"missed"`
	Pending      int                    `json:"pending"`
	Total        int                    `json:"total"`
	ByMedication []*MedicationBreakdown `json:"by_medication"`
	ByWeek       []*WeekBreakdown       `json:"by_week"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

// MedicationBreakdown is the per-drug slice of the report.
type MedicationBreakdown struct {
	MedicationID   uuid.UUID `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	Rate           int       `json:"rate"`
	Taken          int       `json:"taken"`
	Total          int       `json:"total"`
}

// WeekBreakdown is the per-ISO-week slice of the report.
type WeekBreakdown struct {
	Year  int `json:"year"`
	Week  int `json:"week"`
	Rate  int `json:"rate"`
	Taken int `json:"taken"`
	Total int `json:"total"`
}
