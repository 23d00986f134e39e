package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anonto42/nano-midea/forum/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := echo.New()
	e.Validator = validators.NewValidator()
	SetupMiddleware(e)
	Register(e, nil, nil, nil, nil, nil, "secret")

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/user/1"},
		{http.MethodPatch, "/api/user/1"},
		{http.MethodGet, "/api/note/64b7f0c2a1b2c3d4e5f60718"},
		{http.MethodPatch, "/api/note/64b7f0c2a1b2c3d4e5f60718"},
		{http.MethodGet, "/api/comment"},
		{http.MethodPost, "/api/comment"},
		{http.MethodDelete, "/api/comment/abc"},
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/note/x", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFirebaseLoginWithoutVerifier(t *testing.T) {
	e := echo.New()
	e.Validator = validators.NewValidator()
	Register(e, nil, nil, nil, nil, nil, "secret")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/firebase-login", strings.NewReader(`{"idToken":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
