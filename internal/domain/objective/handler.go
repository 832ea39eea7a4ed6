package objective

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
	authed.POST("/session-objectives", h.CreateObjective)
	authed.GET("/session-objectives", h.ListObjectives)
	authed.GET("/session-objectives/:id", h.GetObjective)
	authed.PUT("/session-objectives/:id", h.UpdateObjective)
	authed.DELETE("/session-objectives/:id", h.DeleteObjective)
}

func actorFrom(c echo.Context) auth.Identity {
	return *auth.IdentityFromContext(c.Request().Context())
}

func (h *Handler) CreateObjective(c echo.Context) error {
	var in CreateObjectiveInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid objective payload")
	}
	o, err := h.svc.Create(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) ListObjectives(c echo.Context) error {
	var q ListQuery
	if err := c.Bind(&q); err != nil {
		return apperr.Validation("invalid query parameters")
	}
	pg := pagination.FromContext(c)
	objectives, _, err := h.svc.List(c.Request().Context(), actorFrom(c), q, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if objectives == nil {
		objectives = []*SessionObjective{}
	}
	return c.JSON(http.StatusOK, objectives)
}

func (h *Handler) GetObjective(c echo.Context) error {
	o, err := h.svc.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) UpdateObjective(c echo.Context) error {
	var patch ObjectivePatch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid objective payload")
	}
	o, err := h.svc.Update(c.Request().Context(), actorFrom(c), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) DeleteObjective(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "session objective deleted"})
}
