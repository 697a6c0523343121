package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
)

const testSecret = "test-signing-secret"

func signTestToken(t *testing.T, secret string) string {
	claims := jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func newProtectedEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler
	g := e.Group("/v1", echojwt.WithConfig(NewJWTConfig(testSecret)))
	g.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	return e
}

func TestJWTAcceptsBearerHeader(t *testing.T) {
	e := newProtectedEcho()

	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signTestToken(t, testSecret))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAcceptsSessionCookie(t *testing.T) {
	e := newProtectedEcho()

	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: signTestToken(t, testSecret)})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTRejectsMissingToken(t *testing.T) {
	e := newProtectedEcho()

	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTRejectsForgedCookie(t *testing.T) {
	e := newProtectedEcho()

	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: signTestToken(t, "wrong-secret")})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
