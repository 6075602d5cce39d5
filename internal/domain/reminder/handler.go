package reminder

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/platform/auth"
	"github.com/medtrack/medtrack/internal/platform/timewindow"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RolePatient, auth.RoleMedecin, auth.RoleTuteur))
	read.GET("/patients/:id/medications", h.MedicationsByDate)
	read.GET("/patients/:id/reminders/upcoming", h.Upcoming)
	read.POST("/reminders/:id/snooze", h.Snooze)

	api.POST("/reminders/:id/confirm", h.Confirm,
		auth.RequireRole(auth.RolePatient))
	api.POST("/reminders/:id/confirm-manual", h.ConfirmManual,
		auth.RequireRole(auth.RoleTuteur, auth.RoleMedecin))
}

// MedicationsByDate serves the day schedule. The date query parameter is a
// calendar day (2006-01-02) in the reference zone; it defaults to today.
func (h *Handler) MedicationsByDate(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	date := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		date, err = time.ParseInLocation("2006-01-02", raw, timewindow.Zone)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be formatted as 2006-01-02")
		}
	}

	ctx := c.Request().Context()
	view, err := h.svc.MedicationsByDate(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), patientID, date)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) Confirm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	r, err := h.svc.Confirm(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ConfirmManual(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	r, err := h.svc.ConfirmManual(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, r)
}

// SnoozeRequest is the wire shape for snoozing a reminder.
type SnoozeRequest struct {
	Minutes int `json:"minutes"`
}

func (h *Handler) Snooze(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req SnoozeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	r, err := h.svc.Snooze(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), id, req.Minutes)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, r)
}

// Upcoming serves the offline sync window. days bounds the forward window;
// last_sync is the client's previous checkpoint in RFC 3339, absent on the
// first sync.
func (h *Handler) Upcoming(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	days := 0
	if raw := c.QueryParam("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a positive integer")
		}
	}

	var lastSync *time.Time
	if raw := c.QueryParam("last_sync"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "last_sync must be RFC 3339")
		}
		lastSync = &t
	}

	ctx := c.Request().Context()
	resp, err := h.svc.ChangesSince(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), patientID, days, lastSync)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "reminder not found")
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidState):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
