package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worksheesh/worksheesh/internal/metrics"
)

func TestMetricsHandler_Disabled(t *testing.T) {
	h := NewMetricsHandler(nil)

	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsHandler_Prometheus(t *testing.T) {
	recorder := metrics.NewPrometheus()
	recorder.IncAccountDeleted()
	recorder.ObserveWorksheetListSize(3)

	h := NewMetricsHandler(recorder.Handler())

	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `worksheesh_accounts_delete_total{status="success"} 1`)
	assert.Contains(t, body, "worksheesh_worksheets_list_size_count 1")
}
