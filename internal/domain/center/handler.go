package center

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
	superOnly := auth.RequireRole(auth.RoleSuperAdmin)
	authed.POST("/centers", h.CreateCenter, superOnly)
	authed.GET("/centers", h.ListCenters, superOnly)
	authed.PUT("/centers/:id", h.UpdateCenter, superOnly)
}

func (h *Handler) CreateCenter(c echo.Context) error {
	actor := auth.IdentityFromContext(c.Request().Context())
	var in CreateCenterInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid center payload")
	}
	center, err := h.svc.Create(c.Request().Context(), *actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, center)
}

func (h *Handler) ListCenters(c echo.Context) error {
	actor := auth.IdentityFromContext(c.Request().Context())
	pg := pagination.FromContext(c)
	centers, _, err := h.svc.List(c.Request().Context(), *actor, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if centers == nil {
		centers = []*Center{}
	}
	return c.JSON(http.StatusOK, centers)
}

func (h *Handler) UpdateCenter(c echo.Context) error {
	actor := auth.IdentityFromContext(c.Request().Context())
	var patch CenterPatch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid center payload")
	}
	center, err := h.svc.Update(c.Request().Context(), *actor, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, center)
}
