package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		secretKey      string
		authHeader     string
		expectedStatus int
	}{
		{
			name:           "valid secret - allows request",
			secretKey:      "secret-key-123",
			authHeader:     "Bearer secret-key-123",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing authorization header - denies request",
			secretKey:      "secret-key-123",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bare token without bearer prefix - denies request",
			secretKey:      "secret-key-123",
			authHeader:     "secret-key-123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong secret - denies request",
			secretKey:      "secret-key-123",
			authHeader:     "Bearer wrong-key",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "lowercase bearer prefix - denies request",
			secretKey:      "secret-key-123",
			authHeader:     "bearer secret-key-123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "trailing space - denies request",
			secretKey:      "secret-key-123",
			authHeader:     "Bearer secret-key-123 ",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "empty configured secret rejects everything",
			secretKey:      "",
			authHeader:     "Bearer ",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "empty configured secret rejects even empty credential",
			secretKey:      "",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()

			testHandler := func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			}
			handler := AuthMiddleware(tt.secretKey, nil)(testHandler)

			req := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, handler(c))
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_SkipPaths(t *testing.T) {
	e := echo.New()

	testHandler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	handler := AuthMiddleware("secret", []string{"/health", "/metrics"})(testHandler)

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code, "path %s should bypass auth", path)
	}

	// A non-skipped path still requires the credential.
	req := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
