package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/clarecoast/shorebound/internal/service"
	"github.com/labstack/echo/v4"
)

type SafetyHandler struct {
	svc service.SafetyService
}

func NewSafetyHandler(svc service.SafetyService) *SafetyHandler {
	return &SafetyHandler{svc: svc}
}

func (h *SafetyHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/safety", h.GetPanel)
}

func (h *SafetyHandler) GetPanel(c echo.Context) error {
	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if latErr != nil || lonErr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid coordinates")
	}

	panel, err := h.svc.GetPanel(c.Request().Context(), lat, lon)
	if err != nil {
		if errors.Is(err, service.ErrWeatherUnavailable) {
			// Degrade inline rather than failing the panel request.
			return c.JSON(http.StatusOK, map[string]any{
				"lat":   lat,
				"lon":   lon,
				"error": "Weather service unavailable. Try again soon.",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, panel)
}
