package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/platform/timewindow"
)

// PrescriptionChangeSource answers the two questions sync asks the
// prescription domain: when did anything last change, and what was deleted.
type PrescriptionChangeSource interface {
	MaxUpdatedAt(ctx context.Context, patientID uuid.UUID) (*time.Time, error)
	ListDeletedSince(ctx context.Context, patientID uuid.UUID, since time.Time) ([]uuid.UUID, error)
}

// SyncResponse is the offline reconciliation payload: the full forward
// reminder window plus enough metadata for the client to decide whether its
// local cache is stale and which prescriptions to purge.
type SyncResponse struct {
	HasUpdates             bool                      `json:"has_updates"`
	Reminders              []*ReminderWithMedication `json:"reminders"`
	DeletedPrescriptionIDs []uuid.UUID               `json:"deleted_prescription_ids"`
	SyncedAt               time.Time                 `json:"synced_at"`
}

// maxSyncDays caps the forward window a client may request.
const maxSyncDays = 90

// ChangesSince implements offline sync. A nil lastSync means a first-time
// client: HasUpdates is forced true. Otherwise the prescriptions' maximum
// UpdatedAt decides. The reminder window is always returned in full, so
// clients recover from partial state without a second round trip.
func (s *Service) ChangesSince(ctx context.Context, callerID, role string, patientID uuid.UUID, daysAhead int, lastSync *time.Time) (*SyncResponse, error) {
	if err := scopePatient(patientID, callerID, role); err != nil {
		return nil, err
	}
	if daysAhead <= 0 {
		daysAhead = s.syncDays
	}
	if daysAhead > maxSyncDays {
		return nil, validationf("days must be at most %d", maxSyncDays)
	}

	now := s.now()
	hasUpdates := true
	if lastSync != nil {
		max, err := s.changes.MaxUpdatedAt(ctx, patientID)
		if err != nil {
			return nil, err
		}
		hasUpdates = max != nil && max.After(*lastSync)
	}

	// Materialize the whole window so a client that stays offline past its
	// next visit still has every upcoming dose locally.
	for i := 0; i < daysAhead; i++ {
		day := timewindow.AddDays(now, i)
		if _, err := s.gen.EnsureForDate(ctx, patientID, day); err != nil {
			return nil, err
		}
	}

	from, _ := timewindow.DayBoundsOf(now)
	_, to := timewindow.DayBoundsOf(timewindow.AddDays(now, daysAhead-1))
	reminders, err := s.repo.ListWindow(ctx, patientID, from, to)
	if err != nil {
		return nil, err
	}

	var deleted []uuid.UUID
	if lastSync != nil {
		deleted, err = s.changes.ListDeletedSince(ctx, patientID, *lastSync)
		if err != nil {
			return nil, err
		}
	}

	return &SyncResponse{
		HasUpdates:             hasUpdates,
		Reminders:              reminders,
		DeletedPrescriptionIDs: deleted,
		SyncedAt:               now,
	}, nil
}
