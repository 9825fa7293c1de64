// Package charts turns a projection into chart models and pre-computed SVG
// geometry that templates can draw without further arithmetic.
package charts

import (
	"math"
	"strconv"
	"strings"

	"juros/internal/core"
)

const (
	ColorBalance   = "#4CAF50"
	ColorInterest  = "#FF9800"
	ColorPrincipal = "lightblue"
	ColorPieJuros  = "orange"
)

// Point is a data-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is one named line of a line chart.
type Series struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"stroke_width"`
	Dashed      bool    `json:"dashed"`
	Markers     bool    `json:"markers"`
	Fill        bool    `json:"fill"`
	FillOpacity float64 `json:"fill_opacity,omitempty"`
	Points      []Point `json:"points"`
}

// LineChart holds the data for a line/area chart.
type LineChart struct {
	Title  string   `json:"title"`
	XLabel string   `json:"x_label"`
	YLabel string   `json:"y_label"`
	Series []Series `json:"series"`

	Width   float64 `json:"-"`
	Height  float64 `json:"-"`
	Padding Padding `json:"-"`
}

// Padding is the room left around the plot area for axes and labels.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// Slice is one wedge of a pie chart.
type Slice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

// PieChart holds the data for a pie chart.
type PieChart struct {
	Title  string  `json:"title"`
	Slices []Slice `json:"slices"`
	Total  float64 `json:"total"`

	Radius float64 `json:"-"`
}

// NewProjectionLineChart builds the balance and accumulated-interest series.
func NewProjectionLineChart(res core.ProjectionResult) LineChart {
	balance := Series{
		Name:        "Montante",
		Color:       ColorBalance,
		StrokeWidth: 3,
		Markers:     true,
		Points:      make([]Point, 0, len(res.Points)),
	}
	interest := Series{
		Name:        "Juros Acumulados",
		Color:       ColorInterest,
		StrokeWidth: 2,
		Dashed:      true,
		Fill:        true,
		FillOpacity: 0.3,
		Points:      make([]Point, 0, len(res.Points)),
	}
	for _, p := range res.Points {
		balance.Points = append(balance.Points, Point{X: float64(p.Month), Y: p.Balance})
		interest.Points = append(interest.Points, Point{X: float64(p.Month), Y: p.AccumulatedInterest})
	}

	return LineChart{
		Title:   "Evolução do Investimento",
		XLabel:  "Meses",
		YLabel:  "Valor (R$)",
		Series:  []Series{balance, interest},
		Width:   640,
		Height:  320,
		Padding: Padding{Top: 16, Right: 16, Bottom: 44, Left: 84},
	}
}

// NewCompositionPie splits the final amount into principal and interest.
func NewCompositionPie(res core.ProjectionResult) PieChart {
	c := res.Composition()
	return PieChart{
		Title: "Composição do Montante Final",
		Slices: []Slice{
			{Label: c.Principal.Label, Value: c.Principal.Value, Percent: c.Principal.Percent, Color: ColorPrincipal},
			{Label: c.Interest.Label, Value: c.Interest.Value, Percent: c.Interest.Percent, Color: ColorPieJuros},
		},
		Total:  res.FinalBalance,
		Radius: 120,
	}
}

// fmtCoord keeps SVG output short and stable.
func fmtCoord(v float64) string {
	if math.Abs(v) < 0.005 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func joinCoords(pts [][2]float64) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(fmtCoord(p[0]))
		b.WriteByte(',')
		b.WriteString(fmtCoord(p[1]))
	}
	return b.String()
}
