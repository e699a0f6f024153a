// internal/charts/figure.go
// Package charts turns dashboard tables into Plotly figure specifications.
package charts

import "github.com/mwiater/calview/internal/calibration"

// Palette used by the house style.
const (
	Blue     = "#2C6496"
	Gray     = "#BDBDBD"
	DarkGray = "#616161"
)

// Figure is a Plotly figure: a list of traces plus a layout. ID is the DOM id
// the figure is mounted on.
type Figure struct {
	ID     string  `json:"id"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is the subset of Plotly trace attributes the dashboard uses. Numeric
// X and Y values that may be missing are calibration.Numbers.
type Trace struct {
	Type         string   `json:"type"`
	Name         string   `json:"name,omitempty"`
	Mode         string   `json:"mode,omitempty"`
	Orientation  string   `json:"orientation,omitempty"`
	X            any      `json:"x"`
	Y            any      `json:"y"`
	Text         []string `json:"text,omitempty"`
	TextPosition string   `json:"textposition,omitempty"`
	LegendGroup  string   `json:"legendgroup,omitempty"`
	Marker       *Marker  `json:"marker,omitempty"`
	Line         *Line    `json:"line,omitempty"`
}

// Marker styles bars and points.
type Marker struct {
	Color string `json:"color,omitempty"`
}

// Line styles line traces.
type Line struct {
	Color string `json:"color,omitempty"`
}

// Layout is the subset of Plotly layout attributes the dashboard uses.
type Layout struct {
	Title        *Title       `json:"title,omitempty"`
	XAxis        Axis         `json:"xaxis"`
	YAxis        Axis         `json:"yaxis"`
	BarMode      string       `json:"barmode,omitempty"`
	Legend       *Legend      `json:"legend,omitempty"`
	UniformText  *UniformText `json:"uniformtext,omitempty"`
	Annotations  []Annotation `json:"annotations,omitempty"`
	Font         *Font        `json:"font,omitempty"`
	PlotBGColor  string       `json:"plot_bgcolor,omitempty"`
	PaperBGColor string       `json:"paper_bgcolor,omitempty"`
	Width        int          `json:"width,omitempty"`
	Height       int          `json:"height,omitempty"`
}

// Title is a chart or axis title.
type Title struct {
	Text string `json:"text"`
}

// Axis configures one axis.
type Axis struct {
	Title      *Title    `json:"title,omitempty"`
	TickFormat string    `json:"tickformat,omitempty"`
	Range      []float64 `json:"range,omitempty"`
	Type       string    `json:"type,omitempty"`
}

// Legend configures the legend box.
type Legend struct {
	Title      *Title `json:"title,omitempty"`
	TraceOrder string `json:"traceorder,omitempty"`
}

// UniformText enforces one text size across bar labels.
type UniformText struct {
	Mode    string `json:"mode,omitempty"`
	MinSize int    `json:"minsize"`
}

// Annotation is a text callout anchored at a data point.
type Annotation struct {
	X         float64            `json:"x"`
	Y         calibration.Number `json:"y"`
	Text      string             `json:"text"`
	ShowArrow bool               `json:"showarrow"`
	ArrowHead int                `json:"arrowhead"`
	YShift    int                `json:"yshift"`
	AX        int                `json:"ax"`
	AY        int                `json:"ay"`
	BGColor   string             `json:"bgcolor,omitempty"`
}

// Font sets the figure-wide font.
type Font struct {
	Family string `json:"family,omitempty"`
	Color  string `json:"color,omitempty"`
}

// applyHouseStyle gives a figure the shared report look.
func applyHouseStyle(layout *Layout) {
	layout.Font = &Font{Family: "Roboto Serif", Color: "black"}
	layout.PlotBGColor = "white"
	layout.PaperBGColor = "white"
	layout.Width = 800
	layout.Height = 600
}
