package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/stretchr/testify/require"

	"github.com/worksheesh/worksheesh/api"
	"github.com/worksheesh/worksheesh/internal/model"
	"github.com/worksheesh/worksheesh/internal/service"
)

// loadOpenAPIRouter loads and validates the embedded OpenAPI document.
func loadOpenAPIRouter(t *testing.T) routers.Router {
	t.Helper()

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(api.OpenAPI)
	require.NoError(t, err, "load OpenAPI document")
	require.NoError(t, doc.Validate(context.Background()), "OpenAPI document is invalid")

	router, err := gorillamux.NewRouter(doc)
	require.NoError(t, err)
	return router
}

// validateResponse checks a recorded response against the documented schema
// for its route and status.
func validateResponse(t *testing.T, router routers.Router, req *http.Request, rec *httptest.ResponseRecorder) {
	t.Helper()

	route, pathParams, err := router.FindRoute(req)
	require.NoError(t, err, "route %s %s is not documented", req.Method, req.URL.Path)

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: rec.Code,
		Header: rec.Header(),
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}
	input.SetBodyBytes(rec.Body.Bytes())

	require.NoError(t, openapi3filter.ValidateResponse(context.Background(), input),
		"%s %s -> %d: %s", req.Method, req.URL.Path, rec.Code, rec.Body.String())
}

func TestOpenAPI_Served(t *testing.T) {
	rec := httptest.NewRecorder()
	New().OpenAPI(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	require.True(t, bytes.Equal(api.OpenAPI, rec.Body.Bytes()))
}

func TestContract_Responses(t *testing.T) {
	router := loadOpenAPIRouter(t)

	edited := time.Date(2024, 5, 6, 7, 8, 0, 0, time.UTC)
	verified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	user := &model.User{ID: "user-1", Email: "t@example.com", Name: "T", EmailVerified: &verified, CreatedAt: verified}

	tests := []struct {
		name    string
		method  string
		path    string
		session *model.Session
		serve   func(w http.ResponseWriter, r *http.Request)
	}{
		{
			name: "me", method: http.MethodGet, path: "/api/v1/users/me", session: testSession(),
			serve: NewUserHandler(&fakeUsers{user: user}, testCookie, slog.Default()).Me,
		},
		{
			name: "me null", method: http.MethodGet, path: "/api/v1/users/me", session: testSession(),
			serve: NewUserHandler(&fakeUsers{}, testCookie, slog.Default()).Me,
		},
		{
			name: "me unauthorized", method: http.MethodGet, path: "/api/v1/users/me",
			serve: NewUserHandler(&fakeUsers{}, testCookie, slog.Default()).Me,
		},
		{
			name: "delete", method: http.MethodDelete, path: "/api/v1/users/me", session: testSession(),
			serve: NewUserHandler(&fakeUsers{}, testCookie, slog.Default()).Delete,
		},
		{
			name: "delete missing", method: http.MethodDelete, path: "/api/v1/users/me", session: testSession(),
			serve: NewUserHandler(&fakeUsers{deleteErr: service.ErrUserNotFound}, testCookie, slog.Default()).Delete,
		},
		{
			name: "delete failure", method: http.MethodDelete, path: "/api/v1/users/me", session: testSession(),
			serve: NewUserHandler(&fakeUsers{deleteErr: errors.New("boom")}, testCookie, slog.Default()).Delete,
		},
		{
			name: "list", method: http.MethodGet, path: "/api/v1/worksheets", session: testSession(),
			serve: NewWorksheetHandler(&fakeWorksheets{list: []model.WorksheetSummary{
				{ID: "ws-1", Title: "Fractions", LastEdited: &edited},
				{ID: "ws-2", Title: "Never edited"},
			}}, "https://worksheesh.test", slog.Default()).List,
		},
		{
			name: "list empty", method: http.MethodGet, path: "/api/v1/worksheets", session: testSession(),
			serve: NewWorksheetHandler(&fakeWorksheets{}, "https://worksheesh.test", slog.Default()).List,
		},
		{
			name: "create stub", method: http.MethodPost, path: "/api/v1/worksheets", session: testSession(),
			serve: NewWorksheetHandler(&fakeWorksheets{}, "https://worksheesh.test", slog.Default()).Create,
		},
		{
			name: "create", method: http.MethodPost, path: "/api/v1/worksheets", session: testSession(),
			serve: NewWorksheetHandler(&fakeWorksheets{created: &model.Worksheet{ID: "ws-3", Title: "New"}}, "https://worksheesh.test", slog.Default()).Create,
		},
		{
			name: "healthz", method: http.MethodGet, path: "/healthz",
			serve: NewHealthHandler(nil, nil).Healthz,
		},
		{
			name: "readyz unhealthy", method: http.MethodGet, path: "/readyz",
			serve: NewHealthHandler(pingErr("down"), nil).Readyz,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(tt.method, tt.path, tt.session)
			rec := httptest.NewRecorder()

			tt.serve(rec, req)

			validateResponse(t, router, req, rec)
		})
	}
}
