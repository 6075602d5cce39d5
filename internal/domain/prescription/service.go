package prescription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medtrack/medtrack/internal/platform/auth"
)

// ReminderCanceller cancels a prescription's pending reminders. The reminder
// domain provides the implementation; the narrow interface keeps this
// package from depending on it.
type ReminderCanceller interface {
	CancelForPrescription(ctx context.Context, prescriptionID uuid.UUID) (int64, error)
}

type Service struct {
	repo      Repository
	schedules ScheduleRepository
	canceller ReminderCanceller
	logger    zerolog.Logger
}

func NewService(repo Repository, schedules ScheduleRepository, canceller ReminderCanceller, logger zerolog.Logger) *Service {
	return &Service{repo: repo, schedules: schedules, canceller: canceller, logger: logger}
}

// scopeToCaller hides other patients' prescriptions: a patient caller gets
// ErrNotFound for anything that is not their own, never a forbidden error.
func scopeToCaller(p *Prescription, callerID, role string) error {
	if role != auth.RolePatient {
		return nil
	}
	caller, err := uuid.Parse(callerID)
	if err != nil || p.PatientID != caller {
		return ErrNotFound
	}
	return nil
}

// Create stores a prescription together with its recurrence schedules.
func (s *Service) Create(ctx context.Context, p *Prescription, schedules []*Schedule) error {
	if p.PatientID == uuid.Nil {
		return validationf("patient_id is required")
	}
	if p.MedicationID == uuid.Nil {
		return validationf("medication_id is required")
	}
	if p.PrescribedBy == uuid.Nil {
		return validationf("prescribed_by is required")
	}
	if p.StartDate.IsZero() {
		return validationf("start_date is required")
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return validationf("end_date precedes start_date")
	}
	if len(schedules) == 0 {
		return validationf("at least one schedule is required")
	}
	for _, sched := range schedules {
		sched.IsActive = true
		if err := sched.Validate(); err != nil {
			return err
		}
	}

	p.IsActive = true
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	for _, sched := range schedules {
		sched.PrescriptionID = p.ID
		if err := s.schedules.Create(ctx, sched); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, callerID, role string, id uuid.UUID) (*Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scopeToCaller(p, callerID, role); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListByPatient(ctx context.Context, callerID, role string, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	if role == auth.RolePatient {
		caller, err := uuid.Parse(callerID)
		if err != nil || patientID != caller {
			return nil, 0, ErrNotFound
		}
	}
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Schedules(ctx context.Context, callerID, role string, prescriptionID uuid.UUID) ([]*Schedule, error) {
	if _, err := s.Get(ctx, callerID, role, prescriptionID); err != nil {
		return nil, err
	}
	return s.schedules.ListByPrescription(ctx, prescriptionID)
}

// Update mutates the caregiver-editable fields. Schedules are immutable once
// created; callers add a new schedule and disable the old one instead.
func (s *Service) Update(ctx context.Context, callerID, role string, p *Prescription) error {
	current, err := s.Get(ctx, callerID, role, p.ID)
	if err != nil {
		return err
	}
	if p.StartDate.IsZero() {
		p.StartDate = current.StartDate
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return validationf("end_date precedes start_date")
	}
	p.PatientID = current.PatientID
	p.MedicationID = current.MedicationID
	p.PrescribedBy = current.PrescribedBy
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	if current.IsActive && !p.IsActive {
		return s.cancelReminders(ctx, p.ID)
	}
	return nil
}

// Delete soft-deletes the prescription and cancels its pending reminders so
// they drop out of next/overdue views while staying around for history.
func (s *Service) Delete(ctx context.Context, callerID, role string, id uuid.UUID) error {
	if _, err := s.Get(ctx, callerID, role, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	return s.cancelReminders(ctx, id)
}

// Deactivate stops reminder generation without deleting the prescription.
func (s *Service) Deactivate(ctx context.Context, callerID, role string, id uuid.UUID) error {
	if _, err := s.Get(ctx, callerID, role, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	return s.cancelReminders(ctx, id)
}

func (s *Service) AddSchedule(ctx context.Context, callerID, role string, sched *Schedule) error {
	if _, err := s.Get(ctx, callerID, role, sched.PrescriptionID); err != nil {
		return err
	}
	sched.IsActive = true
	if err := sched.Validate(); err != nil {
		return err
	}
	return s.schedules.Create(ctx, sched)
}

func (s *Service) DisableSchedule(ctx context.Context, callerID, role string, prescriptionID, scheduleID uuid.UUID) error {
	if _, err := s.Get(ctx, callerID, role, prescriptionID); err != nil {
		return err
	}
	sched, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if sched.PrescriptionID != prescriptionID {
		return ErrNotFound
	}
	return s.schedules.SetActive(ctx, scheduleID, false)
}

func (s *Service) cancelReminders(ctx context.Context, prescriptionID uuid.UUID) error {
	if s.canceller == nil {
		return nil
	}
	n, err := s.canceller.CancelForPrescription(ctx, prescriptionID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("prescription_id", prescriptionID.String()).
			Msg("failed to cancel reminders for prescription")
		return err
	}
	s.logger.Info().
		Str("prescription_id", prescriptionID.String()).
		Int64("cancelled", n).
		Msg("cancelled pending reminders")
	return nil
}

// ChangedSince reports whether any of the patient's prescriptions changed
// after the checkpoint. Used by the sync surface.
func (s *Service) ChangedSince(ctx context.Context, patientID uuid.UUID, since time.Time) (bool, error) {
	max, err := s.repo.MaxUpdatedAt(ctx, patientID)
	if err != nil {
		return false, err
	}
	if max == nil {
		return false, nil
	}
	return max.After(since), nil
}
