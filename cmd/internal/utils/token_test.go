package utils

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

var testSecret = []byte("test-secret")

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func TestParseToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("valid", func(t *testing.T) {
		raw := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": "abc", "email": "a@b.c", "exp": exp})
		data, err := ParseToken(raw, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "abc", data.Sub)
		assert.Equal(t, "a@b.c", data.Email)
	})

	cases := map[string]string{
		"wrong secret": signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "abc", "exp": exp}),
		"expired":      signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": "abc", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no expiry":    signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": "abc"}),
		"no subject":   signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"exp": exp}),
		"other alg":    signToken(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{"sub": "abc", "exp": exp}),
		"garbage":      "not.a.token",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(raw, testSecret)
			assert.Error(t, err)
		})
	}
}

func TestJWTMiddleware(t *testing.T) {
	e := echo.New()
	handler := JWTMiddleware(testSecret)(func(c echo.Context) error {
		data, err := ParseTokenDataCtx(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, data.Sub)
	})

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		return rec
	}

	t.Run("passes claims along", func(t *testing.T) {
		raw := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": "abc", "exp": time.Now().Add(time.Hour).Unix()})
		rec := serve("Bearer " + raw)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "abc", rec.Body.String())
	})

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer nope"} {
		t.Run("rejects "+header, func(t *testing.T) {
			rec := serve(header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid or missing auth token")
		})
	}
}

func TestParseTokenDataCtxWithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := ParseTokenDataCtx(c)
	assert.ErrorIs(t, err, ErrMissingToken)
}
