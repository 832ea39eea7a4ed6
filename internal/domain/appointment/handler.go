package appointment

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/psyportal/psyportal/internal/platform/apperr"
	"github.com/psyportal/psyportal/internal/platform/auth"
	"github.com/psyportal/psyportal/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.POST("/appointments", h.CreateAppointment)
	authed.GET("/appointments", h.ListAppointments)
	authed.GET("/appointments/:id", h.GetAppointment)
	authed.PUT("/appointments/:id", h.UpdateAppointment)
	authed.DELETE("/appointments/:id", h.DeleteAppointment)
}

func actorFrom(c echo.Context) auth.Identity {
	return *auth.IdentityFromContext(c.Request().Context())
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var in CreateAppointmentInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid appointment payload")
	}
	a, err := h.svc.Create(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	var q ListQuery
	if err := c.Bind(&q); err != nil {
		return apperr.Validation("invalid query parameters")
	}
	pg := pagination.FromContext(c)
	appts, _, err := h.svc.List(c.Request().Context(), actorFrom(c), q, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if appts == nil {
		appts = []*Appointment{}
	}
	return c.JSON(http.StatusOK, appts)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	a, err := h.svc.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	var patch AppointmentPatch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid appointment payload")
	}
	a, err := h.svc.Update(c.Request().Context(), actorFrom(c), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "appointment deleted"})
}
