package provider

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mindtrack/mindtrack/internal/domain/medication"
	"github.com/mindtrack/mindtrack/internal/platform/apperr"
	"github.com/mindtrack/mindtrack/internal/platform/auth"
	"github.com/mindtrack/mindtrack/pkg/daterange"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(authed *echo.Group) {
	// Patient-side grant management.
	pg := authed.Group("/providers", auth.RequireRole(auth.RolePatient))
	pg.POST("/grant", h.Grant)
	pg.DELETE("/:id/grant", h.Revoke)

	// Provider-side patient access.
	pr := authed.Group("/provider", auth.RequireRole(auth.RoleProvider))
	pr.GET("/patients", h.ListPatients)
	pr.GET("/patients/:id/data", h.PatientData)
	pr.POST("/patients/:id/notes", h.AddNote)
	pr.POST("/patients/:id/medications", h.Prescribe)
}

func (h *Handler) Grant(c echo.Context) error {
	var req GrantRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	patientID := auth.UserIDFromContext(c.Request().Context())
	g, err := h.svc.Grant(c.Request().Context(), patientID, req.ProviderUsername)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *Handler) Revoke(c echo.Context) error {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid provider id")
	}
	patientID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Revoke(c.Request().Context(), patientID, providerID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "access revoked"})
}

func (h *Handler) ListPatients(c echo.Context) error {
	providerID := auth.UserIDFromContext(c.Request().Context())
	items, err := h.svc.ListPatients(c.Request().Context(), providerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) PatientData(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid patient id")
	}
	dr, err := daterange.FromContext(c)
	if err != nil {
		return apperr.Validation(err.Error())
	}
	providerID := auth.UserIDFromContext(c.Request().Context())
	bundle, err := h.svc.PatientData(c.Request().Context(), providerID, patientID, dr)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bundle)
}

func (h *Handler) AddNote(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid patient id")
	}
	var req AddNoteRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	providerID := auth.UserIDFromContext(c.Request().Context())
	n, err := h.svc.AddNote(c.Request().Context(), providerID, patientID, req.NoteText)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) Prescribe(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid patient id")
	}
	var m medication.Medication
	if err := c.Bind(&m); err != nil {
		return apperr.Validation("invalid request body")
	}
	ctx := c.Request().Context()
	providerID := auth.UserIDFromContext(ctx)
	providerUsername := auth.UsernameFromContext(ctx)
	if err := h.svc.Prescribe(ctx, providerID, providerUsername, patientID, &m); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}
