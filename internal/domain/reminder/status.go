package reminder

import "time"

// Status is the lifecycle state of one reminder occurrence. The set is
// closed; transitions outside the state machine are rejected.
type Status string

const (
	StatusScheduled     Status = "scheduled"
	StatusSent          Status = "sent"
	StatusConfirmed     Status = "confirmed"
	StatusManualConfirm Status = "manual_confirm"
	StatusMissed        Status = "missed"
	StatusCancelled     Status = "cancelled"
)

// confirmableStatuses are the states confirm and snooze transitions accept.
// The same set drives the conditional UPDATE in the repository, so the
// check-and-mutate is a single atomic statement.
var confirmableStatuses = []Status{StatusScheduled, StatusSent}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusManualConfirm, StatusMissed, StatusCancelled:
		return true
	}
	return false
}

// IsTaken reports whether the status counts as an adherent dose.
func (s Status) IsTaken() bool {
	return s == StatusConfirmed || s == StatusManualConfirm
}

// CanConfirm reports whether a confirm transition is allowed from s.
func (s Status) CanConfirm() bool {
	return s == StatusScheduled || s == StatusSent
}

// CanSnooze reports whether a snooze transition is allowed from s.
func (s Status) CanSnooze() bool {
	return s == StatusScheduled || s == StatusSent
}

// ConfirmationType records who confirmed a dose.
type ConfirmationType string

const (
	ConfirmationPatient ConfirmationType = "patient"
	ConfirmationTuteur  ConfirmationType = "tuteur_manual"
)

// GracePeriod is the maximum lead time before the scheduled instant during
// which a dose may already be confirmed. Earlier attempts are rejected.
const GracePeriod = 5 * time.Minute

// DefaultOverdueAfter is how long past the scheduled instant a still
// unconfirmed reminder is reported (and lazily persisted) as missed.
const DefaultOverdueAfter = time.Hour

// MinSnooze and MaxSnooze bound the accepted snooze duration.
const (
	MinSnooze = 1 * time.Minute
	MaxSnooze = 60 * time.Minute
)
