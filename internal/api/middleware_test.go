package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/eventscope/eventscope-server/internal/logger"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"ipv4 with port", "203.0.113.7:51234", "203.0.113.7"},
		{"ipv6 with port", "[2001:db8::1]:443", "2001:db8::1"},
		{"bare address from RealIP", "198.51.100.2", "198.51.100.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}

func TestClientIPMiddleware_UsesForwardedAddress(t *testing.T) {
	var seen string
	h := middleware.RealIP(clientIPMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = clientIPFromContext(r.Context())
	})))

	r := httptest.NewRequest(http.MethodGet, "/api/location/ip", nil)
	r.Header.Set("X-Real-IP", "8.8.8.8")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "8.8.8.8", seen)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	var scoped *slog.Logger
	h := middleware.RequestID(requestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scoped = logger.FromContext(r.Context(), nil)
		w.WriteHeader(http.StatusBadGateway)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/events/search", nil))

	out := buf.String()
	assert.NotNil(t, scoped)
	assert.Contains(t, out, `"msg":"http request"`)
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"status":502`)
	assert.Contains(t, out, `"path":"/api/events/search"`)
	assert.Contains(t, out, `"request_id":`)
}

func TestRequestLogger_DefaultsStatusToOK(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := requestLogger(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"level":"INFO"`)
}
