// Package view renders the server-side HTML pages and serves their static assets.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer executes the page templates.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// RenderMyWorksheets writes the worksheet list page.
// The page is rendered into a buffer first so a template error never leaves
// a half-written response.
func (r *Renderer) RenderMyWorksheets(w io.Writer, page *MyWorksheetsPage) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "my_worksheets", page); err != nil {
		return fmt.Errorf("render my worksheets: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded images and assets.
// Mount it at the site root, e.g. for /images/* and /assets/*.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
