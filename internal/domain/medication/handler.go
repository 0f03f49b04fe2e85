package medication

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/medications", auth.RequireRole(auth.RolePatient))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.POST("/log", h.RecordIntake)
	g.GET("/logs", h.ListLogs)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	items, err := h.svc.ListActive(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Create(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return apperr.Validation("invalid request body")
	}
	m.UserID = auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), &m); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid medication id")
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return apperr.Validation("invalid request body")
	}
	m.ID = id
	m.UserID = auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Update(c.Request().Context(), &m); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid medication id")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.SoftDelete(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "medication deleted"})
}

func (h *Handler) RecordIntake(c echo.Context) error {
	var req RecordIntakeRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.MedicationID == uuid.Nil {
		return apperr.ValidationFields(apperr.FieldError{Field: "medicationId", Message: "medicationId is required"})
	}
	if req.Taken == nil {
		return apperr.ValidationFields(apperr.FieldError{Field: "taken", Message: "taken is required"})
	}

	logDate := time.Now()
	if req.LogDate != "" {
		t, err := daterange.ParseDate(req.LogDate)
		if err != nil {
			return apperr.ValidationFields(apperr.FieldError{Field: "logDate", Message: err.Error()})
		}
		logDate = t
	}

	userID := auth.UserIDFromContext(c.Request().Context())
	l, err := h.svc.RecordIntake(c.Request().Context(), userID, req.MedicationID, *req.Taken, logDate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) ListLogs(c echo.Context) error {
	dr, err := daterange.FromContext(c)
	if err != nil {
		return apperr.Validation(err.Error())
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	items, err := h.svc.ListLogs(c.Request().Context(), userID, dr)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
