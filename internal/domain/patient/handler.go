package patient

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
	authed.POST("/patients", h.CreatePatient)
	authed.GET("/patients", h.ListPatients)
	authed.GET("/patients/:id", h.GetPatient)
	authed.PUT("/patients/:id", h.UpdatePatient)
	authed.DELETE("/patients/:id", h.DeletePatient)

	authed.POST("/patients/:id/anamnesis", h.CreateAnamnesis)
	authed.PUT("/patients/:id/anamnesis", h.UpdateAnamnesis)
	authed.GET("/patients/:id/anamnesis", h.GetAnamnesis)

	authed.PUT("/patients/:id/clinical-history", h.UpdateClinicalHistory)
	authed.PUT("/patients/:id/diagnosis", h.UpdateDiagnosis)
	authed.POST("/patients/:id/evaluations", h.AddEvaluation)
	authed.POST("/patients/:id/progress-notes", h.AddProgressNote)
}

func actorFrom(c echo.Context) auth.Identity {
	return *auth.IdentityFromContext(c.Request().Context())
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var in CreatePatientInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid patient payload")
	}
	p, err := h.svc.Create(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	patients, _, err := h.svc.List(c.Request().Context(), actorFrom(c), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	var patch PatientPatch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid patient payload")
	}
	p, err := h.svc.Update(c.Request().Context(), actorFrom(c), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	if err := h.svc.Deactivate(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "patient deactivated"})
}

func (h *Handler) CreateAnamnesis(c echo.Context) error {
	return h.saveAnamnesis(c, "Anamnesis created successfully")
}

func (h *Handler) UpdateAnamnesis(c echo.Context) error {
	return h.saveAnamnesis(c, "Anamnesis updated successfully")
}

func (h *Handler) saveAnamnesis(c echo.Context, message string) error {
	var in AnamnesisInput
	if err := c.Bind(&in); err != nil {
		return apperr.Unprocessable("invalid anamnesis payload")
	}
	a, err := h.svc.SaveAnamnesis(c.Request().Context(), actorFrom(c), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"message": message, "anamnesis": a})
}

func (h *Handler) GetAnamnesis(c echo.Context) error {
	a, err := h.svc.GetAnamnesis(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"anamnesis": a})
}

func (h *Handler) UpdateClinicalHistory(c echo.Context) error {
	var in ClinicalHistory
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid clinical history payload")
	}
	if err := h.svc.SetClinicalHistory(c.Request().Context(), actorFrom(c), c.Param("id"), in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Clinical history updated successfully"})
}

func (h *Handler) UpdateDiagnosis(c echo.Context) error {
	var in Diagnosis
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid diagnosis payload")
	}
	if err := h.svc.SetDiagnosis(c.Request().Context(), actorFrom(c), c.Param("id"), in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Diagnosis updated successfully"})
}

func (h *Handler) AddEvaluation(c echo.Context) error {
	var in Evaluation
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid evaluation payload")
	}
	if _, err := h.svc.AddEvaluation(c.Request().Context(), actorFrom(c), c.Param("id"), in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Evaluation added successfully"})
}

func (h *Handler) AddProgressNote(c echo.Context) error {
	var in ProgressNote
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid progress note payload")
	}
	if _, err := h.svc.AddProgressNote(c.Request().Context(), actorFrom(c), c.Param("id"), in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Progress note added successfully"})
}
