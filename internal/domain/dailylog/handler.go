package dailylog

import (
	"net/http"

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
	g := api.Group("/logs", auth.RequireRole(auth.RolePatient))
	g.GET("", h.List)
	g.POST("", h.Upsert)
}

// Upsert answers 201 when a new row was created and 200 when an existing
// entry for the date was overwritten.
func (h *Handler) Upsert(c echo.Context) error {
	var req UpsertRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	l, created, err := h.svc.Upsert(c.Request().Context(), userID, &req)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, l)
}

func (h *Handler) List(c echo.Context) error {
	dr, err := daterange.FromContext(c)
	if err != nil {
		return apperr.Validation(err.Error())
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	items, err := h.svc.ListByDateRange(c.Request().Context(), userID, dr)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
