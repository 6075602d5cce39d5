package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medtrack/medtrack/internal/domain/prescription"
)

// PrescriptionSource supplies the prescriptions and schedules the generator
// expands. The prescription domain's repositories satisfy it through a thin
// adapter wired in main.
type PrescriptionSource interface {
	FindActiveOnDate(ctx context.Context, patientID uuid.UUID, date time.Time) ([]*prescription.Prescription, error)
	ListSchedules(ctx context.Context, prescriptionID uuid.UUID) ([]*prescription.Schedule, error)
}

// Generator lazily materializes reminder rows for a calendar day. It is
// invoked from the read paths, so the same day may be generated many times
// and concurrently; the storage unique key keeps that idempotent.
type Generator struct {
	prescriptions PrescriptionSource
	reminders     Repository
	logger        zerolog.Logger
}

func NewGenerator(prescriptions PrescriptionSource, reminders Repository, logger zerolog.Logger) *Generator {
	return &Generator{prescriptions: prescriptions, reminders: reminders, logger: logger}
}

// EnsureForDate expands every active schedule of the patient's active
// prescriptions for the given day and inserts the occurrences that do not
// exist yet. It returns the number of newly inserted reminders.
//
// A failure on one prescription is logged and skipped so a single bad row
// cannot blank out the whole day view.
func (g *Generator) EnsureForDate(ctx context.Context, patientID uuid.UUID, date time.Time) (int, error) {
	active, err := g.prescriptions.FindActiveOnDate(ctx, patientID, date)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, p := range active {
		n, err := g.ensureForPrescription(ctx, p, date)
		if err != nil {
			g.logger.Error().Err(err).
				Str("prescription_id", p.ID.String()).
				Time("date", date).
				Msg("reminder generation failed for prescription, skipping")
			continue
		}
		inserted += n
	}
	return inserted, nil
}

func (g *Generator) ensureForPrescription(ctx context.Context, p *prescription.Prescription, date time.Time) (int, error) {
	schedules, err := g.prescriptions.ListSchedules(ctx, p.ID)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, s := range schedules {
		for _, at := range OccurrencesForDate(p, s, date) {
			ok, err := g.reminders.Insert(ctx, &Reminder{
				PrescriptionID: p.ID,
				PatientID:      p.PatientID,
				ScheduledFor:   at,
				Status:         StatusScheduled,
			})
			if err != nil {
				return inserted, err
			}
			if ok {
				inserted++
			}
		}
	}
	return inserted, nil
}
