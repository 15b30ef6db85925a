package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worksheesh/worksheesh/internal/handler/dto"
	"github.com/worksheesh/worksheesh/internal/model"
)

func TestWorksheetHandler_List(t *testing.T) {
	edited := time.Date(2024, 5, 6, 7, 8, 0, 0, time.UTC)
	ws := &fakeWorksheets{list: []model.WorksheetSummary{
		{ID: "ws-1", Title: "Fractions", LastEdited: &edited},
		{ID: "ws-2", Title: "Decimals"},
	}}
	h := NewWorksheetHandler(ws, "https://worksheesh.test/", slog.Default())

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/v1/worksheets", testSession()))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.WorksheetListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Worksheets, 2)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "ws-1", resp.Worksheets[0].ID)
	assert.Equal(t, "https://worksheesh.test/worksheets/ws-1", resp.Worksheets[0].URL)
	require.NotNil(t, resp.Worksheets[0].LastEdited)
	assert.True(t, edited.Equal(*resp.Worksheets[0].LastEdited))
	assert.Nil(t, resp.Worksheets[1].LastEdited)
}

func TestWorksheetHandler_List_EmptyIsArray(t *testing.T) {
	h := NewWorksheetHandler(&fakeWorksheets{}, "https://worksheesh.test", slog.Default())

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/v1/worksheets", testSession()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"worksheets":[],"count":0}`, rec.Body.String())
}

func TestWorksheetHandler_List_Errors(t *testing.T) {
	h := NewWorksheetHandler(&fakeWorksheets{listErr: errors.New("db down")}, "", slog.Default())

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/v1/worksheets", testSession()))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, rec).Code)

	rec = httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/v1/worksheets", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
}

func TestWorksheetHandler_Create_NotImplemented(t *testing.T) {
	h := NewWorksheetHandler(&fakeWorksheets{}, "", slog.Default())

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/v1/worksheets", testSession()))

	require.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "NOT_IMPLEMENTED", decodeError(t, rec).Code)
}

func TestWorksheetHandler_Create(t *testing.T) {
	ws := &fakeWorksheets{created: &model.Worksheet{ID: "ws-9", Title: "Untitled"}}
	h := NewWorksheetHandler(ws, "https://worksheesh.test", slog.Default())

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/v1/worksheets", testSession()))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/worksheets/ws-9", rec.Header().Get("Location"))

	var resp dto.WorksheetResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ws-9", resp.ID)
	assert.Equal(t, "https://worksheesh.test/worksheets/ws-9", resp.URL)
}
