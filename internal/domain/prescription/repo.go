package prescription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error)

	// FindActiveOnDate returns the patient's prescriptions that produce
	// reminders on the given calendar day (active, not deleted, day within
	// the prescription's date range).
	FindActiveOnDate(ctx context.Context, patientID uuid.UUID, date time.Time) ([]*Prescription, error)

	// MaxUpdatedAt returns the most recent UpdatedAt among the patient's
	// non-deleted prescriptions, or nil if there are none.
	MaxUpdatedAt(ctx context.Context, patientID uuid.UUID) (*time.Time, error)

	// ListDeletedSince returns ids of prescriptions soft-deleted at or
	// after the given instant.
	ListDeletedSince(ctx context.Context, patientID uuid.UUID, since time.Time) ([]uuid.UUID, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, s *Schedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error)
	ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*Schedule, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
