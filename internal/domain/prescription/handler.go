package prescription

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/platform/auth"
	"github.com/medtrack/medtrack/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RolePatient, auth.RoleMedecin, auth.RoleTuteur))
	read.GET("/prescriptions/:id", h.Get)
	read.GET("/prescriptions/:id/schedules", h.ListSchedules)
	read.GET("/patients/:id/prescriptions", h.ListByPatient)

	write := api.Group("", auth.RequireRole(auth.RoleMedecin, auth.RoleTuteur))
	write.POST("/prescriptions", h.Create)
	write.PUT("/prescriptions/:id", h.Update)
	write.DELETE("/prescriptions/:id", h.Delete)
	write.POST("/prescriptions/:id/deactivate", h.Deactivate)
	write.POST("/prescriptions/:id/schedules", h.AddSchedule)
	write.DELETE("/prescriptions/:id/schedules/:scheduleId", h.DisableSchedule)
}

// CreateRequest is the wire shape for creating a prescription with its
// schedules in one call.
type CreateRequest struct {
	PatientID    uuid.UUID   `json:"patient_id"`
	MedicationID uuid.UUID   `json:"medication_id"`
	CustomDosage *string     `json:"custom_dosage,omitempty"`
	Instructions *string     `json:"instructions,omitempty"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      *time.Time  `json:"end_date,omitempty"`
	IsChronic    bool        `json:"is_chronic"`
	Schedules    []*Schedule `json:"schedules"`
}

// CreateResponse returns the stored prescription and schedules.
type CreateResponse struct {
	Prescription *Prescription `json:"prescription"`
	Schedules    []*Schedule   `json:"schedules"`
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prescriber, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid caller identity")
	}

	p := &Prescription{
		PatientID:    req.PatientID,
		MedicationID: req.MedicationID,
		PrescribedBy: prescriber,
		CustomDosage: req.CustomDosage,
		Instructions: req.Instructions,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsChronic:    req.IsChronic,
	}
	if err := h.svc.Create(c.Request().Context(), p, req.Schedules); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, CreateResponse{Prescription: p, Schedules: req.Schedules})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	p, err := h.svc.Get(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()
	items, total, err := h.svc.ListByPatient(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Prescription
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	ctx := c.Request().Context()
	if err := h.svc.Update(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), &p); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	if err := h.svc.Delete(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Deactivate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	if err := h.svc.Deactivate(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListSchedules(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	items, err := h.svc.Schedules(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddSchedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var sched Schedule
	if err := c.Bind(&sched); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sched.PrescriptionID = id
	ctx := c.Request().Context()
	if err := h.svc.AddSchedule(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), &sched); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, sched)
}

func (h *Handler) DisableSchedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	scheduleID, err := uuid.Parse(c.Param("scheduleId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule id")
	}
	ctx := c.Request().Context()
	if err := h.svc.DisableSchedule(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), id, scheduleID); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
