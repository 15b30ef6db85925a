package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worksheesh/worksheesh/internal/model"
)

const testOrigin = "https://worksheesh.test"

func render(t *testing.T, page *MyWorksheetsPage) string {
	t.Helper()

	r, err := New()
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, r.RenderMyWorksheets(&sb, page))
	return sb.String()
}

func TestRenderMyWorksheets_Empty(t *testing.T) {
	t.Parallel()

	html := render(t, NewMyWorksheetsPage(testOrigin, "tok", "", nil))

	assert.Contains(t, html, "<title>My Worksheets - Worksheesh</title>")
	assert.Contains(t, html, "<h1>My Worksheets</h1>")
	assert.Contains(t, html, `href="/answer-sheets"`)
	assert.Contains(t, html, "Go to my answer sheets")
	assert.Contains(t, html, `src="/images/illustrations/empty_worksheet.svg"`)
	assert.Contains(t, html, `alt="Empty Worksheet Image"`)
	assert.Contains(t, html, `width="350" height="350"`)
	assert.Contains(t, html, `action="/worksheets"`)
	assert.Contains(t, html, "Create Worksheet")
	assert.NotContains(t, html, "worksheet-row")
}

func TestRenderMyWorksheets_Rows(t *testing.T) {
	t.Parallel()

	edited := time.Date(2026, 2, 3, 14, 5, 0, 0, time.UTC)
	worksheets := []model.WorksheetSummary{
		{ID: "w1", Title: "42 FM 2016", LastEdited: &edited},
		{ID: "w2", Title: "Algebra"},
		{ID: "w3", Title: "Geometry"},
	}

	html := render(t, NewMyWorksheetsPage(testOrigin+"/", "tok", "", worksheets))

	assert.Equal(t, 3, strings.Count(html, `class="worksheet-row"`))
	for _, ws := range worksheets {
		assert.Contains(t, html, `href="/worksheets/`+ws.ID+`"`)
		assert.Contains(t, html, `data-copy="`+testOrigin+`/worksheets/`+ws.ID+`"`)
	}
	assert.Contains(t, html, "Last Edited: Feb 3, 2026 14:05")
	assert.NotContains(t, html, "empty_worksheet.svg")
	assert.NotContains(t, html, "Create Worksheet")
}

func TestRenderMyWorksheets_RowsHaveNoDestructiveAction(t *testing.T) {
	t.Parallel()

	html := render(t, NewMyWorksheetsPage(testOrigin, "tok", "", []model.WorksheetSummary{{ID: "w1", Title: "A"}}))

	start := strings.Index(html, `<ul class="worksheets">`)
	end := strings.Index(html, "</ul>")
	require.True(t, start >= 0 && end > start)
	list := html[start:end]

	assert.NotContains(t, list, "/account/delete")
	assert.NotContains(t, list, "<form")
	assert.Contains(t, list, `type="button"`)

	// The account delete lives in the navigation with a confirmation prompt.
	assert.Equal(t, 1, strings.Count(html, `action="/account/delete"`))
	assert.Contains(t, html, "data-confirm=")
}

func TestRenderMyWorksheets_EscapesTitles(t *testing.T) {
	t.Parallel()

	html := render(t, NewMyWorksheetsPage(testOrigin, "tok", "", []model.WorksheetSummary{
		{ID: "w1", Title: `<script>alert("x")</script>`},
	}))

	assert.NotContains(t, html, `<script>alert("x")</script>`)
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderMyWorksheets_CSRFTokenOnEveryForm(t *testing.T) {
	t.Parallel()

	html := render(t, NewMyWorksheetsPage(testOrigin, "csrf-abc", "", nil))

	forms := strings.Count(html, "<form")
	assert.Equal(t, 3, forms)
	assert.Equal(t, forms, strings.Count(html, `name="csrf_token" value="csrf-abc"`))
}

func TestNewMyWorksheetsPage_Alert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code      string
		wantAlert bool
	}{
		{"", false},
		{ErrorDeleteFailed, true},
		{ErrorCreateUnavailable, true},
		{"<bogus>", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()

			page := NewMyWorksheetsPage(testOrigin, "tok", tt.code, nil)
			assert.Equal(t, tt.wantAlert, page.Alert != "")

			html := render(t, page)
			assert.Equal(t, tt.wantAlert, strings.Contains(html, `role="alert"`))
		})
	}
}

func TestWorksheetPath_EscapesID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/worksheets/abc", WorksheetPath("abc"))
	assert.Equal(t, "/worksheets/a%2Fb", WorksheetPath("a/b"))
}

func TestStatic_ServesIllustration(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Static().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/illustrations/empty_worksheet.svg", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "image/svg+xml")
}
