// internal/report/html.go
package report

import (
	"bytes"
	"html/template"
)

// PlotlyScriptURL is the Plotly.js bundle the dashboard pages load.
const PlotlyScriptURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// Page is the view model of PageTemplate. The standalone report and the live
// dashboard both render it.
type Page struct {
	Title       string
	PlotlyURL   string
	Live        bool
	Metrics     []MetricOption
	Focus       string
	FigureIDs   []string
	FiguresJSON template.JS
	Error       string
}

// MetricOption is one entry of the metric list.
type MetricOption struct {
	Name     string
	Selected bool
}

// NewPage prepares d for PageTemplate. A live page submits the metric list
// back to the server; otherwise the list only shows the selection.
func NewPage(d Dashboard, live bool) (Page, error) {
	payload, err := d.FiguresJSON()
	if err != nil {
		return Page{}, err
	}
	return Page{
		Title:       d.Title,
		PlotlyURL:   PlotlyScriptURL,
		Live:        live,
		Metrics:     metricOptions(d),
		Focus:       d.Focus,
		FigureIDs:   d.FigureIDs(),
		FiguresJSON: template.JS(payload),
	}, nil
}

// NewErrorPage reports a failed render in place of the charts.
func NewErrorPage(title string, err error) Page {
	return Page{
		Title:     title,
		PlotlyURL: PlotlyScriptURL,
		Live:      true,
		Error:     err.Error(),
	}
}

// GenerateHTML renders a standalone HTML dashboard. Figures are embedded as
// JSON and drawn by Plotly.js in the browser.
func GenerateHTML(d Dashboard) (string, error) {
	page, err := NewPage(d, false)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := PageTemplate.Execute(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// metricOptions lists the available metrics, followed by any selected metric
// the training log does not know about so the selection is always visible.
func metricOptions(d Dashboard) []MetricOption {
	opts := make([]MetricOption, 0, len(d.Available))
	known := make(map[string]struct{}, len(d.Available))
	for _, name := range d.Available {
		known[name] = struct{}{}
		opts = append(opts, MetricOption{Name: name, Selected: d.IsSelected(name)})
	}
	for _, name := range d.Selected {
		if _, ok := known[name]; !ok {
			opts = append(opts, MetricOption{Name: name, Selected: true})
		}
	}
	return opts
}

// PageTemplate renders a Page.
var PageTemplate = template.Must(template.New("calibration-report").Parse(pageTemplateHTML))

const pageTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <script src="{{ .PlotlyURL }}"></script>
  <style>
    body { background-color: #F1F5F9; color: #0F172A; }
    .chart-card {
      background: #FFFFFF;
      border-radius: 16px;
      padding: 1.5rem;
      margin-bottom: 1.5rem;
      border: 1px solid #E2E8F0;
      box-shadow: 0 1px 3px rgba(15, 23, 42, 0.1);
    }
    .metric-select { min-height: 8rem; }
  </style>
</head>
<body>
  <div class="container py-4">
    <h1 class="mb-4">{{ .Title }}</h1>
    {{- if .Error }}
    <div class="alert alert-danger" role="alert"><pre class="mb-0">{{ .Error }}</pre></div>
    <a href="/">Back to the default metrics</a>
    {{- else }}
    {{- if .Live }}
    <form method="get" action="/" class="chart-card">
    {{- else }}
    <div class="chart-card">
    {{- end }}
      <label for="metric" class="form-label fw-semibold">Metric</label>
      <select id="metric" name="metric" class="form-select metric-select" multiple{{ if not .Live }} disabled{{ end }}>
        {{- range .Metrics }}
        <option value="{{ .Name }}"{{ if .Selected }} selected{{ end }}>{{ .Name }}</option>
        {{- end }}
      </select>
      <div class="form-text">Loss and final-value charts describe <strong>{{ .Focus }}</strong>.</div>
    {{- if .Live }}
      <button type="submit" class="btn btn-primary mt-3">Update</button>
    </form>
    {{- else }}
    </div>
    {{- end }}
    {{- range .FigureIDs }}
    <div class="chart-card"><div id="{{ . }}"></div></div>
    {{- end }}
    {{- end }}
  </div>
  {{- if not .Error }}
  <script>
    const figures = {{ .FiguresJSON }};
    for (const fig of figures) {
      Plotly.newPlot(fig.id, fig.data, fig.layout, { responsive: true });
    }
  </script>
  {{- end }}
</body>
</html>
`
