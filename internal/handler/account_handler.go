package handler

import (
	"errors"
	"net/http"

	"github.com/clarecoast/shorebound/internal/dto"
	"github.com/clarecoast/shorebound/internal/middleware"
	"github.com/clarecoast/shorebound/internal/service"
	"github.com/labstack/echo/v4"
)

type AccountHandler struct {
	svc  service.AccountService
	auth *middleware.Auth
}

func NewAccountHandler(svc service.AccountService, auth *middleware.Auth) *AccountHandler {
	return &AccountHandler{svc: svc, auth: auth}
}

func (h *AccountHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/auth/signup", h.Signup)
	e.POST("/api/v1/auth/login", h.Login)
	e.GET("/api/v1/me/dashboard", h.Dashboard, h.auth.Required)
}

func (h *AccountHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, token, err := h.svc.Signup(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrUsernameRequired),
			errors.Is(err, service.ErrPasswordTooShort):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.AuthResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
	})
}

func (h *AccountHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, token, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.AuthResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
	})
}

func (h *AccountHandler) Dashboard(c echo.Context) error {
	dashboard, err := h.svc.GetDashboard(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dashboard)
}
