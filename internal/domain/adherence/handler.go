package adherence

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RolePatient, auth.RoleMedecin, auth.RoleTuteur))
	read.GET("/patients/:id/adherence", h.Report)
}

// Report serves the trailing-window adherence summary. window is a number
// of days; it defaults to a week.
func (h *Handler) Report(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	window := 0
	if raw := c.QueryParam("window"); raw != "" {
		window, err = strconv.Atoi(raw)
		if err != nil || window < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "window must be a positive integer")
		}
	}

	ctx := c.Request().Context()
	report, err := h.svc.Compute(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), patientID, window)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		case errors.Is(err, ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, report)
}
