package handler

import (
	"errors"
	"net/http"

	"github.com/clarecoast/shorebound/internal/dto"
	"github.com/clarecoast/shorebound/internal/middleware"
	"github.com/clarecoast/shorebound/internal/models"
	"github.com/clarecoast/shorebound/internal/repository"
	"github.com/clarecoast/shorebound/internal/service"
	"github.com/labstack/echo/v4"
)

type BuddyHandler struct {
	svc  service.BuddyService
	auth *middleware.Auth
}

func NewBuddyHandler(svc service.BuddyService, auth *middleware.Auth) *BuddyHandler {
	return &BuddyHandler{svc: svc, auth: auth}
}

func (h *BuddyHandler) RegisterRoutes(e *echo.Echo) {
	sessions := e.Group("/api/v1/buddy-sessions")
	sessions.GET("", h.ListSessions, h.auth.Optional)
	sessions.POST("", h.CreateSession, h.auth.Required)
	sessions.GET("/:id", h.GetSession, h.auth.Optional)
	sessions.PUT("/:id", h.UpdateSession, h.auth.Required)
	sessions.DELETE("/:id", h.DeleteSession, h.auth.Required)
	sessions.POST("/:id/toggle-join", h.ToggleJoin, h.auth.Required)
	sessions.POST("/:id/messages", h.PostMessage, h.auth.Required)

	e.DELETE("/api/v1/buddy-messages/:id", h.DeleteMessage, h.auth.Required)
	e.GET("/api/v1/me/buddy-sessions", h.MySessions, h.auth.Required)
}

func sessionInput(req dto.SessionRequest) service.SessionInput {
	return service.SessionInput{
		Title:        req.Title,
		Type:         models.SessionType(req.Type),
		StartRaw:     req.Start,
		LocationName: req.LocationName,
		Lat:          req.Lat,
		Lon:          req.Lon,
		Capacity:     req.Capacity,
	}
}

func buddyError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrMessageNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotSessionOwner),
		errors.Is(err, service.ErrMessageForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrSessionFull):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrInvalidSessionType),
		errors.Is(err, service.ErrInvalidStartTime),
		errors.Is(err, service.ErrMessageRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *BuddyHandler) ListSessions(c echo.Context) error {
	f := repository.SessionFilter{
		Type:  models.SessionType(c.QueryParam("type")),
		Query: c.QueryParam("q"),
	}

	sessions, err := h.svc.ListSessions(c.Request().Context(), f, middleware.UserID(c))
	if err != nil {
		return buddyError(err)
	}
	return c.JSON(http.StatusOK, sessions)
}

func (h *BuddyHandler) CreateSession(c echo.Context) error {
	var req dto.SessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sess, err := h.svc.CreateSession(c.Request().Context(), middleware.UserID(c), sessionInput(req))
	if err != nil {
		return buddyError(err)
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *BuddyHandler) GetSession(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	sess, messages, err := h.svc.GetSession(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return buddyError(err)
	}

	msgs := make([]dto.MessageResponse, len(messages))
	for i := range messages {
		msgs[i] = dto.ToMessageResponse(&messages[i])
	}
	return c.JSON(http.StatusOK, map[string]any{
		"session":  sess,
		"messages": msgs,
	})
}

func (h *BuddyHandler) UpdateSession(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	var req dto.SessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sess, err := h.svc.UpdateSession(
		c.Request().Context(), id,
		middleware.UserID(c), middleware.IsStaff(c),
		sessionInput(req), models.SessionStatus(req.Status),
	)
	if err != nil {
		return buddyError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *BuddyHandler) DeleteSession(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	if err := h.svc.DeleteSession(c.Request().Context(), id, middleware.UserID(c), middleware.IsStaff(c)); err != nil {
		return buddyError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BuddyHandler) ToggleJoin(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	sess, err := h.svc.ToggleJoin(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return buddyError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *BuddyHandler) PostMessage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	var req dto.PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	msg, err := h.svc.PostMessage(c.Request().Context(), id, middleware.UserID(c), req.Body)
	if err != nil {
		return buddyError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToMessageResponse(msg))
}

func (h *BuddyHandler) DeleteMessage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid message id")
	}

	if err := h.svc.DeleteMessage(c.Request().Context(), id, middleware.UserID(c), middleware.IsStaff(c)); err != nil {
		return buddyError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BuddyHandler) MySessions(c echo.Context) error {
	hosting, joined, err := h.svc.MySessions(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return buddyError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"hosting": hosting,
		"joined":  joined,
	})
}
