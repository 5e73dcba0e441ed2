package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":   float64(7),
		"name":  "clare",
		"staff": true,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
}

func invoke(mw echo.MiddlewareFunc, authHeader string) (uint, bool, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var userID uint
	var staff bool
	err := mw(func(c echo.Context) error {
		userID = UserID(c)
		staff = IsStaff(c)
		return nil
	})(c)
	return userID, staff, err
}

func TestRequired_ValidToken(t *testing.T) {
	auth := NewAuth(secret)
	token := signToken(t, validClaims(), secret)

	userID, staff, err := invoke(auth.Required, "Bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
	assert.True(t, staff)
}

func TestRequired_Rejections(t *testing.T) {
	auth := NewAuth(secret)

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	noSub := validClaims()
	delete(noSub, "sub")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong key", "Bearer " + signToken(t, validClaims(), "other-secret")},
		{"expired", "Bearer " + signToken(t, expired, secret)},
		{"no subject", "Bearer " + signToken(t, noSub, secret)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := invoke(auth.Required, tc.header)

			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		})
	}
}

func TestOptional_AnonymousPassesThrough(t *testing.T) {
	auth := NewAuth(secret)

	userID, staff, err := invoke(auth.Optional, "")

	require.NoError(t, err)
	assert.Equal(t, uint(0), userID)
	assert.False(t, staff)
}

func TestOptional_ResolvesUser(t *testing.T) {
	auth := NewAuth(secret)
	token := signToken(t, validClaims(), secret)

	userID, _, err := invoke(auth.Optional, "Bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestOptional_InvalidTokenStaysAnonymous(t *testing.T) {
	auth := NewAuth(secret)

	userID, _, err := invoke(auth.Optional, "Bearer garbage")

	require.NoError(t, err)
	assert.Equal(t, uint(0), userID)
}
