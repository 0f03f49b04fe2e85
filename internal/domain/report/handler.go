package report

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

// RegisterRoutes mounts the patient-only report routes on the authenticated
// group and the token-resolving route on the public group; the share token
// is that route's only credential.
func (h *Handler) RegisterRoutes(public, authed *echo.Group) {
	g := authed.Group("/reports", auth.RequireRole(auth.RolePatient))
	g.GET("/stats", h.Stats)
	g.POST("/share", h.CreateShare)

	public.GET("/reports/shared/:token", h.ResolveShare)
}

func (h *Handler) Stats(c echo.Context) error {
	dr, err := daterange.FromContext(c)
	if err != nil {
		return apperr.Validation(err.Error())
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	stats, err := h.svc.ComputeStats(c.Request().Context(), userID, dr)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) CreateShare(c echo.Context) error {
	var req CreateShareRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	resp, err := h.svc.CreateShare(c.Request().Context(), userID, req.DateRange)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ResolveShare(c echo.Context) error {
	data, err := h.svc.ResolveShare(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}
