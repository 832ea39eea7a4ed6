package identity

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/psyportal/psyportal/internal/platform/apperr"
	"github.com/psyportal/psyportal/internal/platform/auth"
	"github.com/psyportal/psyportal/pkg/pagination"
)

// CenterProvisioner creates the default center during bootstrap so patient
// creation never has to lazily provision one per request.
type CenterProvisioner interface {
	EnsureDefault(ctx context.Context, creatorID string) error
}

type Handler struct {
	svc     *Service
	centers CenterProvisioner
}

func NewHandler(svc *Service, centers CenterProvisioner) *Handler {
	return &Handler{svc: svc, centers: centers}
}

// RegisterRoutes wires the public auth endpoints and the authenticated user
// management endpoints.
func (h *Handler) RegisterRoutes(public, authed *echo.Group) {
	public.POST("/auth/login", h.Login)
	public.POST("/init/super-admin", h.BootstrapSuperAdmin)

	authed.GET("/auth/me", h.Me)
	authed.POST("/auth/register", h.CreateUser, auth.RequireRole(auth.RoleSuperAdmin, auth.RoleCenterAdmin))
	authed.POST("/users", h.CreateUser, auth.RequireRole(auth.RoleSuperAdmin, auth.RoleCenterAdmin))
	authed.GET("/users", h.ListUsers)
	authed.PUT("/users/:id", h.UpdateUser)
	authed.DELETE("/users/:id", h.DeleteUser, auth.RequireRole(auth.RoleSuperAdmin, auth.RoleCenterAdmin))
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid login payload")
	}
	token, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

func (h *Handler) Me(c echo.Context) error {
	id := auth.IdentityFromContext(c.Request().Context())
	u, err := h.svc.Get(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) CreateUser(c echo.Context) error {
	actor := auth.IdentityFromContext(c.Request().Context())
	var in CreateUserInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid user payload")
	}
	u, err := h.svc.Create(c.Request().Context(), *actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) ListUsers(c echo.Context) error {
	actor := auth.IdentityFromContext(c.Request().Context())
	pg := pagination.FromContext(c)
	users, _, err := h.svc.List(c.Request().Context(), *actor, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*User{}
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	actor := auth.IdentityFromContext(c.Request().Context())
	var patch UserPatch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid user payload")
	}
	u, err := h.svc.Update(c.Request().Context(), *actor, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	actor := auth.IdentityFromContext(c.Request().Context())
	if err := h.svc.Deactivate(c.Request().Context(), *actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deactivated"})
}

func (h *Handler) BootstrapSuperAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	u, err := h.svc.BootstrapSuperAdmin(ctx)
	if err != nil {
		return err
	}
	if h.centers != nil {
		if err := h.centers.EnsureDefault(ctx, u.ID); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message":  "super admin created successfully",
		"email":    BootstrapAdminEmail,
		"password": BootstrapAdminPassword,
	})
}
