package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StatusChange describes one conditional transition. The repository applies
// it only while the row is still in one of the Expected states, making
// concurrent confirm/snooze/cancel attempts race-safe: exactly one wins.
type StatusChange struct {
	To           Status
	Expected     []Status
	ConfirmedAt  *time.Time
	ConfirmedBy  *uuid.UUID
	SnoozedUntil *time.Time
}

// Repository is the persistence boundary for reminders and confirmations.
type Repository interface {
	// Insert materializes one occurrence. It returns false when a reminder
	// with the same (prescription_id, scheduled_for) already exists, in
	// which case the row is left untouched.
	Insert(ctx context.Context, r *Reminder) (bool, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error)

	// ApplyStatusChange performs the conditional transition and reports
	// whether a row was updated. False means the reminder was not in an
	// expected state (or does not exist).
	ApplyStatusChange(ctx context.Context, id uuid.UUID, change StatusChange) (bool, error)

	// Confirm applies the confirming transition and records the audit row
	// atomically: either the reminder reaches its taken state with exactly
	// one confirmation, or neither write lands.
	Confirm(ctx context.Context, id uuid.UUID, change StatusChange, conf *Confirmation) (bool, error)

	// CancelForPrescription cancels every pending reminder of the
	// prescription and returns how many rows changed.
	CancelForPrescription(ctx context.Context, prescriptionID uuid.UUID) (int64, error)

	// MarkMissedBefore persists the missed state for pending reminders
	// scheduled before cutoff, skipping rows whose snooze extends past now.
	MarkMissedBefore(ctx context.Context, cutoff, now time.Time) (int64, error)

	// ListWindow returns the patient's reminders with their medication
	// context for scheduled_for in [from, to], ordered by scheduled_for.
	// Cancelled reminders are excluded.
	ListWindow(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]*ReminderWithMedication, error)
}
