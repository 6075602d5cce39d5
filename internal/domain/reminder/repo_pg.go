package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const remCols = `id, prescription_id, patient_id, scheduled_for, status,
	confirmed_at, confirmed_by, snoozed_until, created_at, updated_at`

func scanReminder(row pgx.Row) (*Reminder, error) {
	var r Reminder
	err := row.Scan(&r.ID, &r.PrescriptionID, &r.PatientID, &r.ScheduledFor, &r.Status,
		&r.ConfirmedAt, &r.ConfirmedBy, &r.SnoozedUntil, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &r, err
}

func (r *repoPG) Insert(ctx context.Context, rem *Reminder) (bool, error) {
	rem.ID = uuid.New()
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO medication_reminder (id, prescription_id, patient_id, scheduled_for, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (prescription_id, scheduled_for) DO NOTHING`,
		rem.ID, rem.PrescriptionID, rem.PatientID, rem.ScheduledFor, StatusScheduled)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	return scanReminder(r.pool.QueryRow(ctx, `
		SELECT `+remCols+` FROM medication_reminder WHERE id = $1`, id))
}

// execer is satisfied by both the pool and a transaction, so the
// conditional update runs standalone (snooze) or inside Confirm's
// transaction with the same SQL.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func applyStatusChange(ctx context.Context, db execer, id uuid.UUID, change StatusChange) (bool, error) {
	expected := make([]string, len(change.Expected))
	for i, s := range change.Expected {
		expected[i] = string(s)
	}
	tag, err := db.Exec(ctx, `
		UPDATE medication_reminder
		SET status = $2, confirmed_at = $3, confirmed_by = $4, snoozed_until = $5,
			updated_at = NOW()
		WHERE id = $1 AND status = ANY($6)`,
		id, change.To, change.ConfirmedAt, change.ConfirmedBy, change.SnoozedUntil, expected)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) ApplyStatusChange(ctx context.Context, id uuid.UUID, change StatusChange) (bool, error) {
	return applyStatusChange(ctx, r.pool, id, change)
}

func (r *repoPG) Confirm(ctx context.Context, id uuid.UUID, change StatusChange, conf *Confirmation) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	applied, err := applyStatusChange(ctx, tx, id, change)
	if err != nil || !applied {
		return applied, err
	}

	conf.ID = uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO medication_confirmation (id, reminder_id, confirmed_by, confirmation_type, confirmed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		conf.ID, conf.ReminderID, conf.ConfirmedBy, conf.Type, conf.ConfirmedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return false, invalidStatef("reminder already confirmed")
	}
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit confirmation: %w", err)
	}
	return true, nil
}

func (r *repoPG) CancelForPrescription(ctx context.Context, prescriptionID uuid.UUID) (int64, error) {
	expected := make([]string, len(confirmableStatuses))
	for i, s := range confirmableStatuses {
		expected[i] = string(s)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE medication_reminder
		SET status = $2, snoozed_until = NULL, updated_at = NOW()
		WHERE prescription_id = $1 AND status = ANY($3)`,
		prescriptionID, StatusCancelled, expected)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) MarkMissedBefore(ctx context.Context, cutoff, now time.Time) (int64, error) {
	expected := make([]string, len(confirmableStatuses))
	for i, s := range confirmableStatuses {
		expected[i] = string(s)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE medication_reminder
		SET status = $3, updated_at = NOW()
		WHERE scheduled_for < $1
		  AND status = ANY($4)
		  AND (snoozed_until IS NULL OR snoozed_until <= $2)`,
		cutoff, now, StatusMissed, expected)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) ListWindow(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]*ReminderWithMedication, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.prescription_id, r.patient_id, r.scheduled_for, r.status,
			r.confirmed_at, r.confirmed_by, r.snoozed_until, r.created_at, r.updated_at,
			m.name, p.custom_dosage
		FROM medication_reminder r
		JOIN prescription p ON p.id = r.prescription_id
		JOIN medication m ON m.id = p.medication_id
		WHERE r.patient_id = $1 AND r.scheduled_for BETWEEN $2 AND $3
		  AND r.status <> 'cancelled'
		ORDER BY r.scheduled_for`, patientID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*ReminderWithMedication
	for rows.Next() {
		var rm ReminderWithMedication
		if err := rows.Scan(&rm.ID, &rm.PrescriptionID, &rm.PatientID, &rm.ScheduledFor, &rm.Status,
			&rm.ConfirmedAt, &rm.ConfirmedBy, &rm.SnoozedUntil, &rm.CreatedAt, &rm.UpdatedAt,
			&rm.MedicationName, &rm.CustomDosage); err != nil {
			return nil, err
		}
		items = append(items, &rm)
	}
	return items, rows.Err()
}
