package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darion/internal/application/access"
	"darion/internal/infrastructure/logging"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestAuth(t *testing.T) {
	hash, err := access.NewService("").HashToken("letmein")
	require.NoError(t, err)
	protected := Auth(access.NewService(hash))(ok)

	tests := []struct {
		name   string
		method string
		header map[string]string
		status int
	}{
		{"no token", http.MethodGet, nil, http.StatusUnauthorized},
		{"wrong token", http.MethodGet, map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"bearer", http.MethodGet, map[string]string{"Authorization": "Bearer letmein"}, http.StatusNoContent},
		{"access token header", http.MethodPost, map[string]string{"X-Access-Token": "letmein"}, http.StatusNoContent},
		{"preflight", http.MethodOptions, nil, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/sort-files", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			protected(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	Auth(access.NewService(""))(ok)(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCORS(t *testing.T) {
	cors := CORSFor(CORSConfig{AllowedOrigins: []string{"https://app.example.com", "*.darion.dev"}})

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://app.example.com", true},
		{"https://ui.darion.dev", true},
		{"https://evildarion.dev", false},
		{"https://other.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			cors(ok)(rec, req)

			if tt.allowed {
				assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	next := func(w http.ResponseWriter, r *http.Request) { called = true }

	req := httptest.NewRequest(http.MethodOptions, "/api/ai-query", nil)
	req.Header.Set("Origin", "https://anywhere.test")
	rec := httptest.NewRecorder()
	CORSFor(CORSConfig{AllowedOrigins: []string{"*"}})(next)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "https://anywhere.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Session-ID")
}

func TestLoggingSetsRequestID(t *testing.T) {
	var seen bool
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.WithContext(r.Context()) != logging.L()
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	assert.True(t, seen, "handlers get a request scoped logger")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/api/sync/gmail", routeLabel(httptest.NewRequest(http.MethodGet, "/api/sync/gmail", nil)))
	assert.Equal(t, "other", routeLabel(httptest.NewRequest(http.MethodGet, "/api/sync/x1234", nil)))
}
