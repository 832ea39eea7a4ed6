package payment

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
	authed.POST("/payments", h.CreatePayment)
	authed.GET("/payments", h.ListPayments)
	authed.GET("/payments/stats", h.PaymentStats)
	authed.PUT("/payments/:id", h.UpdatePayment)
	authed.DELETE("/payments/:id", h.DeletePayment)
}

func actorFrom(c echo.Context) auth.Identity {
	return *auth.IdentityFromContext(c.Request().Context())
}

func (h *Handler) CreatePayment(c echo.Context) error {
	var in CreatePaymentInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid payment payload")
	}
	p, err := h.svc.Create(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListPayments(c echo.Context) error {
	pg := pagination.FromContext(c)
	payments, _, err := h.svc.List(c.Request().Context(), actorFrom(c), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if payments == nil {
		payments = []*Payment{}
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *Handler) PaymentStats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) UpdatePayment(c echo.Context) error {
	var patch PaymentPatch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid payment payload")
	}
	p, err := h.svc.Update(c.Request().Context(), actorFrom(c), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePayment(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "payment deleted"})
}
