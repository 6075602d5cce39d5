package reminder

import (
	"time"

	"github.com/google/uuid"
)

// Reminder maps to the medication_reminder table: one concrete occurrence
// of a schedule. (prescription_id, scheduled_for) is unique; the generator
// relies on that key to stay idempotent under concurrent invocation.
type Reminder struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PrescriptionID uuid.UUID  `db:"prescription_id" json:"prescription_id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	ScheduledFor   time.Time  `db:"scheduled_for" json:"scheduled_for"`
	Status         Status     `db:"status" json:"status"`
	ConfirmedAt    *time.Time `db:"confirmed_at" json:"confirmed_at,omitempty"`
	ConfirmedBy    *uuid.UUID `db:"confirmed_by" json:"confirmed_by,omitempty"`
	SnoozedUntil   *time.Time `db:"snoozed_until" json:"snoozed_until,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// IsOverdue reports whether the reminder should surface as missed at the
// given instant: still awaiting confirmation, past the threshold, and not
// inside an active snooze.
func (r *Reminder) IsOverdue(now time.Time, overdueAfter time.Duration) bool {
	if !r.Status.CanConfirm() {
		return false
	}
	if r.SnoozedUntil != nil && r.SnoozedUntil.After(now) {
		return false
	}
	return now.Sub(r.ScheduledFor) > overdueAfter
}

// Confirmation maps to the medication_confirmation table: the append-only
// audit record of a confirmation event. UNIQUE(reminder_id) makes repeat
// confirmation attempts fail at the storage layer as well.
type Confirmation struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	ReminderID  uuid.UUID        `db:"reminder_id" json:"reminder_id"`
	ConfirmedBy uuid.UUID        `db:"confirmed_by" json:"confirmed_by"`
	Type        ConfirmationType `db:"confirmation_type" json:"confirmation_type"`
	ConfirmedAt time.Time        `db:"confirmed_at" json:"confirmed_at"`
}

// ReminderWithMedication is the day-view row: a reminder joined with the
// catalog name and prescription dosage the client renders.
type ReminderWithMedication struct {
	Reminder
	MedicationName string  `db:"medication_name" json:"medication_name"`
	CustomDosage   *string `db:"custom_dosage" json:"custom_dosage,omitempty"`
}
