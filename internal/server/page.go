// internal/server/page.go
package server

import (
	"github.com/a-h/templ"

	"github.com/mwiater/calview/internal/report"
)

// dashboardPage renders the interactive dashboard. It shares the report's
// page definition; the metric list is a live form that reloads the page.
func dashboardPage(d report.Dashboard) (templ.Component, error) {
	page, err := report.NewPage(d, true)
	if err != nil {
		return nil, err
	}
	return templ.FromGoHTML(report.PageTemplate, page), nil
}

// errorPage reports a failed render.
func errorPage(title string, err error) templ.Component {
	return templ.FromGoHTML(report.PageTemplate, report.NewErrorPage(title, err))
}
