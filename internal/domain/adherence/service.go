package adherence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medtrack/medtrack/internal/domain/reminder"
	"github.com/medtrack/medtrack/internal/platform/auth"
	"github.com/medtrack/medtrack/internal/platform/kvstore"
	"github.com/medtrack/medtrack/internal/platform/timewindow"
)

const (
	// DefaultWindowDays is the trailing window when the caller does not ask
	// for a specific one.
	DefaultWindowDays = 7
	maxWindowDays     = 90

	// cacheTTL keeps repeated report reads off the database without letting
	// a fresh confirmation stay invisible for long.
	cacheTTL = 60 * time.Second
)

type Service struct {
	repo   Repository
	cache  kvstore.Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, cache kvstore.Store, logger zerolog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// Compute builds the adherence report over the trailing windowDays ending
// now. The window covers whole local days up to the current instant, so
// doses that are not due yet never count against the patient.
func (s *Service) Compute(ctx context.Context, callerID, role string, patientID uuid.UUID, windowDays int) (*Report, error) {
	if role == auth.RolePatient {
		caller, err := uuid.Parse(callerID)
		if err != nil || patientID != caller {
			return nil, ErrNotFound
		}
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	if windowDays > maxWindowDays {
		return nil, validationf("window must be at most %d days", maxWindowDays)
	}

	key := fmt.Sprintf("adherence:%s:%d", patientID, windowDays)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var report Report
		if err := json.Unmarshal(cached, &report); err == nil {
			return &report, nil
		}
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		s.logger.Warn().Err(err).Msg("adherence cache read failed")
	}

	now := s.now()
	from, _ := timewindow.DayBoundsOf(timewindow.AddDays(now, -(windowDays - 1)))
	records, err := s.repo.ListInWindow(ctx, patientID, from, now)
	if err != nil {
		return nil, err
	}

	report := aggregate(patientID, windowDays, from, now, records)

	if payload, err := json.Marshal(report); err == nil {
		if err := s.cache.Put(ctx, key, payload, cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("adherence cache write failed")
		}
	}
	return report, nil
}

// aggregate folds the dose records into the report. The windowed rate
// defaults to 0 on an empty window: with no data there is no evidence of
// adherence, unlike the day view where no obligations means nothing missed.
func aggregate(patientID uuid.UUID, windowDays int, from, now time.Time, records []*DoseRecord) *Report {
	report := &Report{
		PatientID:   patientID,
		WindowDays:  windowDays,
		From:        from,
		To:          now,
		GeneratedAt: now,
	}

	byMedication := make(map[uuid.UUID]*MedicationBreakdown)
	byWeek := make(map[[2]int]*WeekBreakdown)

	for _, rec := range records {
		taken := rec.Status.IsTaken()
		switch {
		case taken:
			report.Taken++
		case rec.Status == reminder.StatusMissed || isOverdue(rec, now):
			report.Missed++
		default:
			report.Pending++
		}
		report.Total++

		med := byMedication[rec.MedicationID]
		if med == nil {
			med = &MedicationBreakdown{MedicationID: rec.MedicationID, MedicationName: rec.MedicationName}
			byMedication[rec.MedicationID] = med
		}
		med.Total++
		if taken {
			med.Taken++
		}

		year, week := timewindow.ISOWeek(rec.ScheduledFor)
		wk := byWeek[[2]int{year, week}]
		if wk == nil {
			wk = &WeekBreakdown{Year: year, Week: week}
			byWeek[[2]int{year, week}] = wk
		}
		wk.Total++
		if taken {
			wk.Taken++
		}
	}

	report.Rate = rate(report.Taken, report.Total)

	for _, med := range byMedication {
		med.Rate = rate(med.Taken, med.Total)
		report.ByMedication = append(report.ByMedication, med)
	}
	sort.Slice(report.ByMedication, func(i, j int) bool {
		return report.ByMedication[i].MedicationName < report.ByMedication[j].MedicationName
	})

	for _, wk := range byWeek {
		wk.Rate = rate(wk.Taken, wk.Total)
		report.ByWeek = append(report.ByWeek, wk)
	}
	sort.Slice(report.ByWeek, func(i, j int) bool {
		a, b := report.ByWeek[i], report.ByWeek[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Week < b.Week
	})

	return report
}

func isOverdue(rec *DoseRecord, now time.Time) bool {
	if rec.SnoozedUntil != nil && rec.SnoozedUntil.After(now) {
		return false
	}
	return now.Sub(rec.ScheduledFor) > reminder.DefaultOverdueAfter
}

func rate(taken, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(taken) / float64(total) * 100))
}
