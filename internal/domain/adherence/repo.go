package adherence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the raw dose records the aggregation runs over.
type Repository interface {
	// ListInWindow returns the patient's non-cancelled doses with
	// scheduled_for in [from, to].
	ListInWindow(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]*DoseRecord, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) ListInWindow(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]*DoseRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.name, r.status, r.scheduled_for, r.snoozed_until
		FROM medication_reminder r
		JOIN prescription p ON p.id = r.prescription_id
		JOIN medication m ON m.id = p.medication_id
		WHERE r.patient_id = $1
		  AND r.scheduled_for BETWEEN $2 AND $3
		  AND r.status <> 'cancelled'
		ORDER BY r.scheduled_for`, patientID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*DoseRecord
	for rows.Next() {
		var rec DoseRecord
		if err := rows.Scan(&rec.MedicationID, &rec.MedicationName, &rec.Status,
			&rec.ScheduledFor, &rec.SnoozedUntil); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
