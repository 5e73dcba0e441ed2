package handler

import (
	"net/http"

	"github.com/clarecoast/shorebound/internal/service"
	"github.com/labstack/echo/v4"
)

type SpotHandler struct {
	svc service.SpotService
}

func NewSpotHandler(svc service.SpotService) *SpotHandler {
	return &SpotHandler{svc: svc}
}

func (h *SpotHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/spots", h.ListSpots)
}

func (h *SpotHandler) ListSpots(c echo.Context) error {
	markers, err := h.svc.ListMarkers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, markers)
}
