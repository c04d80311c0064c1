package opd

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, staff *echo.Group) {
	public.POST("/patient-registration", h.Register)
	public.GET("/registration-success", h.RegistrationSuccess)
	public.GET("/api/opd-queue", h.Queue)
	public.GET("/api/queue-status-by-token", h.QueueStatusByToken)

	staff.POST("/start-consultation/:id", h.action(ActionStart))
	staff.POST("/complete-consultation/:id", h.action(ActionComplete))
	staff.POST("/cancel-consultation/:id", h.action(ActionCancel))
}

// Register accepts the registration payload as JSON or a browser form post.
// Form posts answer with a redirect so the browser lands on the success
// page; JSON clients get the result directly.
func (h *Handler) Register(c echo.Context) error {
	var input RegistrationInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.Register(c.Request().Context(), input)
	if err != nil {
		if isFormRequest(c) {
			return c.Redirect(http.StatusSeeOther, "/patient-registration?error="+url.QueryEscape(err.Error()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
	}

	if isFormRequest(c) {
		return c.Redirect(http.StatusSeeOther, "/registration-success?token="+url.QueryEscape(result.Token))
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":    true,
		"patient_id": result.PatientID,
		"queue_id":   result.QueueID,
		"token":      result.Token,
		"position":   result.Position,
	})
}

// RegistrationSuccess echoes the token back. Page rendering is the front
// end's job; this endpoint exists so the redirect target resolves.
func (h *Handler) RegistrationSuccess(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
	})
}

func (h *Handler) Queue(c echo.Context) error {
	board, err := h.svc.Board(c.Request().Context(), c.QueryParam("department"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load queue")
	}
	return c.JSON(http.StatusOK, board)
}

func (h *Handler) QueueStatusByToken(c echo.Context) error {
	token := c.QueryParam("token")
	name := c.QueryParam("name")
	if token == "" && name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token or name is required")
	}
	return c.JSON(http.StatusOK, h.svc.LookupByToken(c.Request().Context(), token, name))
}

// action builds the consultation workflow handlers. They all share the
// {success, message?} response shape.
func (h *Handler) action(a Action) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
		}
		if err := h.svc.Transition(c.Request().Context(), id, a); err != nil {
			status := http.StatusBadRequest
			if err.Error() == "patient not found" {
				status = http.StatusNotFound
			}
			return c.JSON(status, map[string]interface{}{
				"success": false,
				"message": err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
	}
}

func isFormRequest(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEApplicationForm) || strings.HasPrefix(ct, echo.MIMEMultipartForm)
}
