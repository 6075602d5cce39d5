package prescription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medtrack/medtrack/internal/platform/timewindow"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const rxCols = `id, patient_id, medication_id, prescribed_by, custom_dosage,
	instructions, start_date, end_date, is_chronic, is_active, deleted_at,
	created_at, updated_at`

func scanRx(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.PatientID, &p.MedicationID, &p.PrescribedBy, &p.CustomDosage,
		&p.Instructions, &p.StartDate, &p.EndDate, &p.IsChronic, &p.IsActive, &p.DeletedAt,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO prescription (id, patient_id, medication_id, prescribed_by,
			custom_dosage, instructions, start_date, end_date, is_chronic, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		p.ID, p.PatientID, p.MedicationID, p.PrescribedBy,
		p.CustomDosage, p.Instructions, p.StartDate, p.EndDate, p.IsChronic, p.IsActive).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return scanRx(r.pool.QueryRow(ctx, `
		SELECT `+rxCols+` FROM prescription WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Prescription) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE prescription SET custom_dosage=$2, instructions=$3, start_date=$4,
			end_date=$5, is_chronic=$6, is_active=$7, updated_at=NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		p.ID, p.CustomDosage, p.Instructions, p.StartDate, p.EndDate, p.IsChronic, p.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE prescription SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE prescription SET is_active = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM prescription WHERE patient_id = $1 AND deleted_at IS NULL`,
		patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+rxCols+` FROM prescription
		WHERE patient_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectRx(rows)
	return items, total, err
}

func (r *repoPG) FindActiveOnDate(ctx context.Context, patientID uuid.UUID, date time.Time) ([]*Prescription, error) {
	dayStart, dayEnd := timewindow.DayBoundsOf(date)
	rows, err := r.pool.Query(ctx, `
		SELECT `+rxCols+` FROM prescription
		WHERE patient_id = $1
		  AND deleted_at IS NULL
		  AND is_active = TRUE
		  AND start_date <= $2
		  AND (end_date IS NULL OR end_date >= $3)
		ORDER BY created_at`, patientID, dayEnd, dayStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRx(rows)
}

func (r *repoPG) MaxUpdatedAt(ctx context.Context, patientID uuid.UUID) (*time.Time, error) {
	var max *time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT MAX(updated_at) FROM prescription
		WHERE patient_id = $1 AND deleted_at IS NULL`, patientID).Scan(&max)
	return max, err
}

func (r *repoPG) ListDeletedSince(ctx context.Context, patientID uuid.UUID, since time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM prescription
		WHERE patient_id = $1 AND deleted_at IS NOT NULL AND deleted_at >= $2`,
		patientID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func collectRx(rows pgx.Rows) ([]*Prescription, error) {
	var items []*Prescription
	for rows.Next() {
		p, err := scanRx(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// -- Schedule repository --

type scheduleRepoPG struct{ pool *pgxpool.Pool }

func NewScheduleRepoPG(pool *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepoPG{pool: pool}
}

const schedCols = `id, prescription_id, schedule_type, scheduled_time,
	days_of_week, interval_hours, is_active, created_at, updated_at`

func scanSchedule(row pgx.Row) (*Schedule, error) {
	var s Schedule
	err := row.Scan(&s.ID, &s.PrescriptionID, &s.ScheduleType, &s.ScheduledTime,
		&s.DaysOfWeek, &s.IntervalHours, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *scheduleRepoPG) Create(ctx context.Context, s *Schedule) error {
	s.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO medication_schedule (id, prescription_id, schedule_type,
			scheduled_time, days_of_week, interval_hours, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		s.ID, s.PrescriptionID, s.ScheduleType, s.ScheduledTime,
		s.DaysOfWeek, s.IntervalHours, s.IsActive).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *scheduleRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	return scanSchedule(r.pool.QueryRow(ctx, `
		SELECT `+schedCols+` FROM medication_schedule WHERE id = $1`, id))
}

func (r *scheduleRepoPG) ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*Schedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+schedCols+` FROM medication_schedule
		WHERE prescription_id = $1
		ORDER BY created_at`, prescriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *scheduleRepoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE medication_schedule SET is_active = $2, updated_at = NOW()
		WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
