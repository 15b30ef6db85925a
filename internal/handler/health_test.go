package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func pingOK() HealthChecker { return pingFunc(func(context.Context) error { return nil }) }

func pingErr(msg string) HealthChecker {
	return pingFunc(func(context.Context) error { return errors.New(msg) })
}

func serveHealth(t *testing.T, fn http.HandlerFunc, path string) (int, HealthResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	fn(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec.Code, body
}

func TestHealthz_NeverTouchesDependencies(t *testing.T) {
	panicky := pingFunc(func(context.Context) error { panic("liveness must not ping") })
	h := NewHealthHandler(panicky, panicky)

	code, body := serveHealth(t, h.Healthz, "/healthz")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.Checks)
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		db, cache  HealthChecker
		wantCode   int
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name:       "both up",
			db:         pingOK(),
			cache:      pingOK(),
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantChecks: map[string]string{"postgres": "ok", "redis": "ok"},
		},
		{
			name:       "postgres down",
			db:         pingErr("connection refused"),
			cache:      pingOK(),
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
			wantChecks: map[string]string{"postgres": "error: connection refused", "redis": "ok"},
		},
		{
			name:       "redis down",
			db:         pingOK(),
			cache:      pingErr("i/o timeout"),
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
			wantChecks: map[string]string{"postgres": "ok", "redis": "error: i/o timeout"},
		},
		{
			name:       "nothing configured",
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantChecks: map[string]string{"postgres": "not configured", "redis": "not configured"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.cache)

			code, body := serveHealth(t, h.Readyz, "/readyz")

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantChecks, body.Checks)
		})
	}
}

func TestReadyz_PingHasDeadline(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := NewHealthHandler(pingFunc(func(ctx context.Context) error {
		deadline, ok = ctx.Deadline()
		return nil
	}), nil)

	code, _ := serveHealth(t, h.Readyz, "/readyz")

	assert.Equal(t, http.StatusOK, code)
	require.True(t, ok, "readiness ping should carry a deadline")
	assert.WithinDuration(t, time.Now().Add(readyTimeout), deadline, time.Second)
}
