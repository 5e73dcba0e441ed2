package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	ContextUserID  = "userID"
	ContextIsStaff = "isStaff"
)

// Auth validates Bearer tokens and exposes the current user to handlers.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Required rejects requests without a valid token.
func (a *Auth) Required(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, isStaff, err := a.parse(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		c.Set(ContextUserID, userID)
		c.Set(ContextIsStaff, isStaff)
		return next(c)
	}
}

// Optional resolves the user when a valid token is present and stays
// anonymous otherwise. Availability listings use it for the `mine` flag.
func (a *Auth) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if userID, isStaff, err := a.parse(c); err == nil {
			c.Set(ContextUserID, userID)
			c.Set(ContextIsStaff, isStaff)
		}
		return next(c)
	}
}

func (a *Auth) parse(c echo.Context) (uint, bool, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return 0, false, echo.ErrUnauthorized
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, false, echo.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false, echo.ErrUnauthorized
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, false, echo.ErrUnauthorized
	}
	staff, _ := claims["staff"].(bool)
	return uint(sub), staff, nil
}

// UserID returns the authenticated user id, or 0 for anonymous requests.
func UserID(c echo.Context) uint {
	if id, ok := c.Get(ContextUserID).(uint); ok {
		return id
	}
	return 0
}

// IsStaff reports whether the authenticated user has staff rights.
func IsStaff(c echo.Context) bool {
	if staff, ok := c.Get(ContextIsStaff).(bool); ok {
		return staff
	}
	return false
}
