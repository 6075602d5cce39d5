package reminder

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medtrack/medtrack/internal/platform/auth"
	"github.com/medtrack/medtrack/internal/platform/timewindow"
)

type Service struct {
	repo         Repository
	gen          *Generator
	changes      PrescriptionChangeSource
	logger       zerolog.Logger
	overdueAfter time.Duration
	syncDays     int
	now          func() time.Time
}

// NewService wires the reminder read and transition paths. syncDays is the
// forward window (in days) returned to offline clients when they do not ask
// for a specific one.
func NewService(repo Repository, gen *Generator, changes PrescriptionChangeSource, syncDays int, logger zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		gen:          gen,
		changes:      changes,
		logger:       logger,
		overdueAfter: DefaultOverdueAfter,
		syncDays:     syncDays,
		now:          time.Now,
	}
}

// scopePatient hides other patients' data: a patient caller gets ErrNotFound
// for anything that is not their own, never a forbidden error.
func scopePatient(patientID uuid.UUID, callerID, role string) error {
	if role != auth.RolePatient {
		return nil
	}
	caller, err := uuid.Parse(callerID)
	if err != nil || patientID != caller {
		return ErrNotFound
	}
	return nil
}

// DayView is the day-schedule payload: every dose due on one calendar day
// with the day's adherence figures.
type DayView struct {
	Date          string                    `json:"date"`
	Medications   []*ReminderWithMedication `json:"medications"`
	Total         int                       `json:"total"`
	Taken         int                       `json:"taken"`
	AdherenceRate int                       `json:"adherence_rate"`
}

// MedicationsByDate returns the patient's doses for one calendar day,
// materializing missing reminders first. A day with nothing scheduled
// reports a 100% rate: no obligations means nothing was missed.
func (s *Service) MedicationsByDate(ctx context.Context, callerID, role string, patientID uuid.UUID, date time.Time) (*DayView, error) {
	if err := scopePatient(patientID, callerID, role); err != nil {
		return nil, err
	}
	if _, err := s.gen.EnsureForDate(ctx, patientID, date); err != nil {
		return nil, err
	}

	now := s.now()
	s.sweepMissed(ctx, now)

	from, to := timewindow.DayBoundsOf(date)
	items, err := s.repo.ListWindow(ctx, patientID, from, to)
	if err != nil {
		return nil, err
	}

	taken := 0
	for _, item := range items {
		if item.IsOverdue(now, s.overdueAfter) {
			item.Status = StatusMissed
		}
		if item.Status.IsTaken() {
			taken++
		}
	}

	view := &DayView{
		Date:          date.In(timewindow.Zone).Format("2006-01-02"),
		Medications:   items,
		Total:         len(items),
		Taken:         taken,
		AdherenceRate: 100,
	}
	if view.Total > 0 {
		view.AdherenceRate = int(math.Round(float64(taken) / float64(view.Total) * 100))
	}
	return view, nil
}

// sweepMissed lazily persists the missed state for long-overdue reminders.
// Failures only cost durability of the derived state, so they are logged
// rather than surfaced.
func (s *Service) sweepMissed(ctx context.Context, now time.Time) {
	n, err := s.repo.MarkMissedBefore(ctx, now.Add(-s.overdueAfter), now)
	if err != nil {
		s.logger.Error().Err(err).Msg("missed-reminder sweep failed")
		return
	}
	if n > 0 {
		s.logger.Debug().Int64("marked", n).Msg("persisted missed reminders")
	}
}

// Confirm records that the patient took the dose. Only the owning patient
// may call it; the reminder moves to Confirmed.
func (s *Service) Confirm(ctx context.Context, callerID, role string, id uuid.UUID) (*Reminder, error) {
	if role != auth.RolePatient {
		return nil, invalidStatef("only the patient confirms their own dose")
	}
	return s.confirm(ctx, callerID, role, id, StatusConfirmed, ConfirmationPatient)
}

// ConfirmManual records a caregiver-attested dose. The reminder moves to
// ManualConfirm so reports can tell the two apart.
func (s *Service) ConfirmManual(ctx context.Context, callerID, role string, id uuid.UUID) (*Reminder, error) {
	return s.confirm(ctx, callerID, role, id, StatusManualConfirm, ConfirmationTuteur)
}

func (s *Service) confirm(ctx context.Context, callerID, role string, id uuid.UUID, to Status, ctype ConfirmationType) (*Reminder, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scopePatient(r.PatientID, callerID, role); err != nil {
		return nil, err
	}
	caller, err := uuid.Parse(callerID)
	if err != nil {
		return nil, validationf("invalid caller identity")
	}

	now := s.now()
	if now.Before(r.ScheduledFor.Add(-GracePeriod)) {
		return nil, invalidStatef("dose cannot be confirmed more than %d minutes early", int(GracePeriod.Minutes()))
	}
	if !r.Status.CanConfirm() {
		return nil, invalidStatef("reminder is %s", r.Status)
	}

	applied, err := s.repo.Confirm(ctx, id, StatusChange{
		To:          to,
		Expected:    confirmableStatuses,
		ConfirmedAt: &now,
		ConfirmedBy: &caller,
	}, &Confirmation{
		ReminderID:  id,
		ConfirmedBy: caller,
		Type:        ctype,
		ConfirmedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, invalidStatef("reminder is no longer awaiting confirmation")
	}

	r.Status = to
	r.ConfirmedAt = &now
	r.ConfirmedBy = &caller
	r.SnoozedUntil = nil
	r.UpdatedAt = now
	return r, nil
}

// Snooze pushes the reminder back by the given number of minutes. The
// scheduled instant is untouched so a later confirmation still counts
// against the original dose time; only SnoozedUntil moves.
func (s *Service) Snooze(ctx context.Context, callerID, role string, id uuid.UUID, minutes int) (*Reminder, error) {
	d := time.Duration(minutes) * time.Minute
	if d < MinSnooze || d > MaxSnooze {
		return nil, validationf("snooze must be between %d and %d minutes",
			int(MinSnooze.Minutes()), int(MaxSnooze.Minutes()))
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scopePatient(r.PatientID, callerID, role); err != nil {
		return nil, err
	}
	if !r.Status.CanSnooze() {
		return nil, invalidStatef("reminder is %s", r.Status)
	}

	now := s.now()
	until := now.Add(d)
	applied, err := s.repo.ApplyStatusChange(ctx, id, StatusChange{
		To:           StatusScheduled,
		Expected:     confirmableStatuses,
		SnoozedUntil: &until,
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, invalidStatef("reminder is no longer snoozable")
	}

	r.Status = StatusScheduled
	r.SnoozedUntil = &until
	r.UpdatedAt = now
	return r, nil
}

// CancelForPrescription exposes the repository cancellation so the
// prescription domain can use this service as its ReminderCanceller.
func (s *Service) CancelForPrescription(ctx context.Context, prescriptionID uuid.UUID) (int64, error) {
	return s.repo.CancelForPrescription(ctx, prescriptionID)
}
