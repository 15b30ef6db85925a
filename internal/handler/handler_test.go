package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/worksheesh/worksheesh/internal/service"
)

func TestHandler_Root(t *testing.T) {
	rec := httptest.NewRecorder()
	New().Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/my-worksheets", rec.Header().Get("Location"))
}

func TestHandler_Fallbacks(t *testing.T) {
	h := New()
	tests := []struct {
		name     string
		serve    http.HandlerFunc
		wantCode int
		wantBody string
	}{
		{"not found", h.NotFound, http.StatusNotFound, `{"error":"resource not found","code":"NOT_FOUND"}`},
		{"method not allowed", h.MethodNotAllowed, http.StatusMethodNotAllowed, `{"error":"method not allowed","code":"METHOD_NOT_ALLOWED"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.serve(rec, httptest.NewRequest(http.MethodPost, "/nowhere", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantErr  string
		logged   bool
	}{
		{service.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", false},
		{fmt.Errorf("delete: %w", service.ErrUserNotFound), http.StatusNotFound, "USER_NOT_FOUND", false},
		{service.ErrCreateNotImplemented, http.StatusNotImplemented, "NOT_IMPLEMENTED", false},
		{errors.New("pool closed"), http.StatusInternalServerError, "INTERNAL_ERROR", true},
	}

	for _, tt := range tests {
		t.Run(tt.wantErr, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, nil))
			rec := httptest.NewRecorder()

			handleServiceError(rec, logger, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, rec).Code)
			if tt.logged {
				assert.Contains(t, logs.String(), "pool closed")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}
