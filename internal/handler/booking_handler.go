package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/clarecoast/shorebound/internal/dto"
	"github.com/clarecoast/shorebound/internal/middleware"
	"github.com/clarecoast/shorebound/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc   service.BookingService
	auth  *middleware.Auth
	clock clockwork.Clock
}

func NewBookingHandler(svc service.BookingService, auth *middleware.Auth, clock clockwork.Clock) *BookingHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &BookingHandler{svc: svc, auth: auth, clock: clock}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	activities := e.Group("/api/v1/activities")
	activities.GET("/:id/availability", h.GetAvailability, h.auth.Optional)
	activities.POST("/:id/bookings", h.CreateBooking, h.auth.Required)

	e.DELETE("/api/v1/bookings/:id", h.CancelBooking, h.auth.Required)
	e.GET("/api/v1/me/bookings", h.MyBookings, h.auth.Required)
}

func (h *BookingHandler) GetAvailability(c echo.Context) error {
	activityID, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid activity id")
	}

	// Unparseable or missing dates fall back to today.
	date, err := time.ParseInLocation("2006-01-02", c.QueryParam("date"), time.Local)
	if err != nil {
		date = h.clock.Now().Local()
	}

	slots, err := h.svc.AvailableSlots(c.Request().Context(), activityID, date, middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrBookingNotOffered):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"date":  date.Format("2006-01-02"),
		"slots": slots,
	})
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	activityID, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid activity id")
	}

	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), middleware.UserID(c), activityID, req.Start, req.PartySize)
	if err != nil {
		var capErr *service.CapacityError
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidStartTime),
			errors.Is(err, service.ErrInvalidPartySize),
			errors.Is(err, service.ErrBookingNotOffered):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAlreadyBooked),
			errors.Is(err, service.ErrSlotUnavailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.As(err, &capErr):
			return echo.NewHTTPError(http.StatusConflict, capErr.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	bookingID, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), bookingID, middleware.UserID(c), middleware.IsStaff(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotBookingOwner):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAlreadyCancelled):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) MyBookings(c echo.Context) error {
	bookings, err := h.svc.MyBookings(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = dto.ToBookingResponse(&bookings[i])
	}
	return c.JSON(http.StatusOK, resp)
}
