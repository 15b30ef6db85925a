package view

import (
	"net/url"
	"strings"

	"github.com/worksheesh/worksheesh/internal/model"
)

// PageTitle is the document title of the worksheet list page.
const PageTitle = "My Worksheets - Worksheesh"

// Error codes carried in the ?error= query parameter of /my-worksheets.
const (
	ErrorDeleteFailed      = "delete_failed"
	ErrorCreateUnavailable = "create_unavailable"
)

var alertMessages = map[string]string{
	ErrorDeleteFailed:      "We couldn't delete your account. Please try again.",
	ErrorCreateUnavailable: "Creating worksheets isn't available yet.",
}

// WorksheetRow is one entry of the worksheet list.
type WorksheetRow struct {
	ID         string
	Title      string
	Href       string
	ShareURL   string
	LastEdited string
}

// MyWorksheetsPage is the view model of the worksheet list page.
type MyWorksheetsPage struct {
	Title     string
	Origin    string
	CSRFToken string
	Alert     string
	Empty     bool
	Rows      []WorksheetRow
}

// NewMyWorksheetsPage builds the page for the given worksheets.
// origin is the absolute application origin without a trailing slash.
// Unknown error codes produce no alert.
func NewMyWorksheetsPage(origin, csrfToken, errorCode string, worksheets []model.WorksheetSummary) *MyWorksheetsPage {
	origin = strings.TrimSuffix(origin, "/")

	rows := make([]WorksheetRow, 0, len(worksheets))
	for _, ws := range worksheets {
		href := WorksheetPath(ws.ID)
		rows = append(rows, WorksheetRow{
			ID:         ws.ID,
			Title:      ws.Title,
			Href:       href,
			ShareURL:   origin + href,
			LastEdited: ws.LastEditedLabel(),
		})
	}

	return &MyWorksheetsPage{
		Title:     PageTitle,
		Origin:    origin,
		CSRFToken: csrfToken,
		Alert:     alertMessages[errorCode],
		Empty:     len(rows) == 0,
		Rows:      rows,
	}
}

// WorksheetPath returns the editor route of a worksheet.
func WorksheetPath(id string) string {
	return "/worksheets/" + url.PathEscape(id)
}
