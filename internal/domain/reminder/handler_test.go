package reminder

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/platform/auth"
)

func newHandlerServer(f *fixture, userID, role string) *echo.Echo {
	e := echo.New()
	api := e.Group("/api/v1", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := auth.WithIdentity(c.Request().Context(), userID, role)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	NewHandler(f.svc).RegisterRoutes(api)
	return e
}

func TestConfirmEndpoint(t *testing.T) {
	f := newFixture()
	r := f.insertReminder(utc("2025-12-05T07:00:00Z"))
	e := newHandlerServer(f, f.patientID.String(), auth.RolePatient)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/"+r.ID.String()+"/confirm", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != StatusConfirmed {
		t.Errorf("status = %s, want %s", body.Status, StatusConfirmed)
	}

	// A second attempt conflicts with the terminal state.
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reminders/"+r.ID.String()+"/confirm", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("second confirm status = %d, want 409", rec.Code)
	}
}

func TestConfirmEndpoint_RoleGuard(t *testing.T) {
	f := newFixture()
	r := f.insertReminder(utc("2025-12-05T07:00:00Z"))
	e := newHandlerServer(f, f.patientID.String(), auth.RoleTuteur)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reminders/"+r.ID.String()+"/confirm", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}

	// The manual endpoint is the caregiver's path.
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reminders/"+r.ID.String()+"/confirm-manual", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("confirm-manual status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestSnoozeEndpoint(t *testing.T) {
	f := newFixture()
	r := f.insertReminder(utc("2025-12-05T07:00:00Z"))
	e := newHandlerServer(f, f.patientID.String(), auth.RolePatient)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/"+r.ID.String()+"/snooze", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	if rec := post(`{"minutes": 90}`); rec.Code != http.StatusBadRequest {
		t.Errorf("minutes=90 status = %d, want 400", rec.Code)
	}
	rec := post(`{"minutes": 15}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.SnoozedUntil == nil {
		t.Error("snoozed_until not set")
	}
}

func TestMedicationsByDateEndpoint(t *testing.T) {
	f := newFixture()
	f.addDailyPrescription(utc("2025-12-01T07:00:00Z"))
	e := newHandlerServer(f, f.patientID.String(), auth.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+f.patientID.String()+"/medications?date=2025-12-05", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var view DayView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.Total != 1 || view.Date != "2025-12-05" {
		t.Errorf("got total=%d date=%q, want 1/2025-12-05", view.Total, view.Date)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+f.patientID.String()+"/medications?date=05-12-2025", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed date status = %d, want 400", rec.Code)
	}
}

func TestUpcomingEndpoint(t *testing.T) {
	f := newFixture()
	f.addDailyPrescription(utc("2025-12-01T07:00:00Z"))
	e := newHandlerServer(f, f.patientID.String(), auth.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+f.patientID.String()+"/reminders/upcoming?days=7", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp SyncResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.HasUpdates || len(resp.Reminders) != 7 {
		t.Errorf("got has_updates=%t reminders=%d, want true/7", resp.HasUpdates, len(resp.Reminders))
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+f.patientID.String()+"/reminders/upcoming?last_sync=yesterday", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed last_sync status = %d, want 400", rec.Code)
	}
}
