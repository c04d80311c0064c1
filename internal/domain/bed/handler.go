package bed

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mediflow/mediflow/internal/platform/auth"
	"github.com/mediflow/mediflow/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, staff *echo.Group) {
	// The bed board is reachable without credentials but strips occupant
	// identity unless the caller holds a staff role.
	public.GET("/api/all-beds", h.AllBeds)

	staff.POST("/admit-patient/:id", h.Admit)
	staff.POST("/discharge-patient/:id", h.Discharge)
	staff.POST("/discharge-by-bed", h.DischargeByBed)
	staff.POST("/api/assign-bed-to-patient", h.AssignBed)
	staff.GET("/api/available-beds", h.AvailableBeds)
	staff.GET("/api/waiting-patients", h.WaitingPatients)
}

type admitRequest struct {
	Doctor string `json:"doctor" form:"doctor"`
}

func (h *Handler) Admit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	var req admitRequest
	_ = c.Bind(&req)

	result, err := h.svc.Admit(c.Request().Context(), id, req.Doctor)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "patient not found" {
			status = http.StatusNotFound
		}
		return c.JSON(status, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"bed_number":   result.BedNumber,
		"ward_name":    result.WardName,
		"patient_name": result.PatientName,
	})
}

type assignBedRequest struct {
	PatientID string `json:"patient_id" form:"patient_id"`
	BedID     string `json:"bed_id" form:"bed_id"`
	Doctor    string `json:"doctor" form:"doctor"`
}

func (h *Handler) AssignBed(c echo.Context) error {
	var req assignBedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	bedID, err := uuid.Parse(req.BedID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bed_id")
	}

	result, err := h.svc.AssignBed(c.Request().Context(), patientID, bedID, req.Doctor)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "patient not found" || err.Error() == "bed not found" {
			status = http.StatusNotFound
		}
		return c.JSON(status, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"bed_number":   result.BedNumber,
		"ward_name":    result.WardName,
		"patient_name": result.PatientName,
	})
}

func (h *Handler) Discharge(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	result, err := h.svc.Discharge(c.Request().Context(), id)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "patient not found" {
			status = http.StatusNotFound
		}
		return c.JSON(status, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"bed_number":   result.BedNumber,
		"patient_name": result.PatientName,
	})
}

type dischargeByBedRequest struct {
	BedLabel string `json:"bed_label" form:"bed_label"`
}

func (h *Handler) DischargeByBed(c echo.Context) error {
	var req dischargeByBedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.DischargeByBed(c.Request().Context(), req.BedLabel)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "bed not found" {
			status = http.StatusNotFound
		}
		return c.JSON(status, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"bed_number":   result.BedNumber,
		"patient_name": result.PatientName,
	})
}

// AllBeds serves the bed board. Staff see occupant details; everyone else
// gets the sanitized occupancy view.
func (h *Handler) AllBeds(c echo.Context) error {
	sanitize := !auth.HasStaffRole(auth.RolesFromContext(c.Request().Context()))
	beds, err := h.svc.ListAll(c.Request().Context(), sanitize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list beds")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"beds":    beds,
	})
}

func (h *Handler) AvailableBeds(c echo.Context) error {
	ctx := c.Request().Context()
	beds, err := h.svc.ListAvailable(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list beds")
	}
	total, occupied, err := h.svc.Occupancy(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to count beds")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"beds":          beds,
		"total_beds":    total,
		"occupied_beds": occupied,
	})
}

func (h *Handler) WaitingPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.WaitingPatients(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list waiting patients")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}
