// Package web serves the embedded browser dashboard.
package web

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// dashboardData feeds the page template
type dashboardData struct {
	// BaseURL prefixes the analyze endpoint; empty means same origin.
	BaseURL string
}

// RenderDashboard writes the dashboard page
func RenderDashboard(w io.Writer, baseURL string) error {
	return dashboardTmpl.Execute(w, dashboardData{BaseURL: baseURL})
}
