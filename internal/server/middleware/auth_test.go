package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newAuthContext(t *testing.T, apiKey string, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return &AppContext{Context: c, App: &App{MasterAPIKey: apiKey}}, rec
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		apiKey     string
		authHeader string
		wantStatus int
	}{
		{"no key configured is open", "", "", http.StatusOK},
		{"valid bearer token", "secret", "Bearer secret", http.StatusOK},
		{"wrong token", "secret", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "secret", "", http.StatusUnauthorized},
		{"missing bearer prefix", "secret", "secret", http.StatusUnauthorized},
	}

	next := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newAuthContext(t, tt.apiKey, tt.authHeader)

			if err := AuthMiddleware(next)(c); err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
