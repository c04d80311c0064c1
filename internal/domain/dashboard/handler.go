package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mediflow/mediflow/internal/platform/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public, staff *echo.Group) {
	public.GET("/", h.Home)
	public.GET("/dashboard/patient", h.PatientDashboard)
	public.GET("/api/dashboard/summary-public", h.PublicSummary)

	staff.GET("/dashboard", h.HospitalDashboard)
	staff.GET("/dashboard/hospital", h.HospitalDashboard)
	staff.GET("/api/dashboard-summary", h.StaffSummary)
}

// Home routes staff to the hospital dashboard and everyone else to the
// patient-facing one.
func (h *Handler) Home(c echo.Context) error {
	roles := auth.RolesFromContext(c.Request().Context())
	if auth.HasStaffRole(roles) {
		return c.Redirect(http.StatusFound, "/dashboard/hospital")
	}
	return c.Redirect(http.StatusFound, "/dashboard/patient")
}

func (h *Handler) HospitalDashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Summary(c.Request().Context()))
}

func (h *Handler) PatientDashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.PublicSummary(c.Request().Context()))
}

func (h *Handler) StaffSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"summary": h.service.Summary(c.Request().Context()),
	})
}

func (h *Handler) PublicSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"summary": h.service.PublicSummary(c.Request().Context()),
	})
}
