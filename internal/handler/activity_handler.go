package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/clarecoast/shorebound/internal/dto"
	"github.com/clarecoast/shorebound/internal/middleware"
	"github.com/clarecoast/shorebound/internal/repository"
	"github.com/clarecoast/shorebound/internal/service"
	"github.com/labstack/echo/v4"
)

type ActivityHandler struct {
	svc  service.ActivityService
	auth *middleware.Auth
}

func NewActivityHandler(svc service.ActivityService, auth *middleware.Auth) *ActivityHandler {
	return &ActivityHandler{svc: svc, auth: auth}
}

func (h *ActivityHandler) RegisterRoutes(e *echo.Echo) {
	activities := e.Group("/api/v1/activities")
	activities.GET("", h.ListActivities)
	activities.GET("/:id", h.GetActivity)
	activities.POST("/:id/rsvp", h.ToggleRSVP, h.auth.Required)

	e.GET("/api/v1/providers", h.ListProviders)
}

func (h *ActivityHandler) ListActivities(c echo.Context) error {
	f := repository.ActivityFilter{
		Query: c.QueryParam("q"),
	}
	if p := c.QueryParam("provider"); p != "" {
		id, err := strconv.ParseUint(p, 10, 64)
		if err == nil {
			f.ProviderID = uint(id)
		}
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.PerPage, _ = strconv.Atoi(c.QueryParam("per_page"))

	activities, total, err := h.svc.ListActivities(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := dto.ActivityListResponse{
		Activities: make([]dto.ActivityResponse, len(activities)),
		Total:      total,
		Page:       max(f.Page, 1),
		PerPage:    f.PerPage,
	}
	for i := range activities {
		resp.Activities[i] = dto.ToActivityResponse(&activities[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ActivityHandler) GetActivity(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid activity id")
	}

	activity, err := h.svc.GetActivity(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "activity not found")
	}
	return c.JSON(http.StatusOK, dto.ToActivityResponse(activity))
}

func (h *ActivityHandler) ListProviders(c echo.Context) error {
	providers, err := h.svc.ListProviders(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, providers)
}

func (h *ActivityHandler) ToggleRSVP(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid activity id")
	}

	interested, err := h.svc.ToggleRSVP(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"interested": interested})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
