package charts

import (
	"math"
	"strconv"

	"juros/internal/core"
)

// Tick is an axis tick at a pixel position.
type Tick struct {
	Pos   float64
	Label string
}

// Marker is a point drawn on top of a line.
type Marker struct {
	X, Y  float64
	Title string
}

// LineGeometry is one series in pixel space.
type LineGeometry struct {
	Name        string
	Color       string
	StrokeWidth float64
	DashArray   string
	Points      string
	Area        string
	FillOpacity float64
	Markers     []Marker
}

// LineLayout is everything the line chart template needs.
type LineLayout struct {
	Width, Height float64
	Left, Top     float64
	Right, Bottom float64
	Lines         []LineGeometry
	XTicks        []Tick
	YTicks        []Tick
	XLabel        string
	YLabel        string
}

// maxMarkers avoids drawing a dot per month on long terms.
const maxMarkers = 120

// Layout scales every series into the plot area.
func (c LineChart) Layout() LineLayout {
	l := LineLayout{
		Width:  c.Width,
		Height: c.Height,
		Left:   c.Padding.Left,
		Top:    c.Padding.Top,
		Right:  c.Width - c.Padding.Right,
		Bottom: c.Height - c.Padding.Bottom,
		XLabel: c.XLabel,
		YLabel: c.YLabel,
	}

	xMax, yMin, yMax := 0.0, 0.0, 0.0
	for _, s := range c.Series {
		for _, p := range s.Points {
			xMax = math.Max(xMax, p.X)
			yMin = math.Min(yMin, p.Y)
			yMax = math.Max(yMax, p.Y)
		}
	}
	if xMax == 0 {
		xMax = 1
	}
	yStep := niceStep((yMax - yMin) / 5)
	yMin = math.Floor(yMin/yStep) * yStep
	yMax = math.Ceil(yMax/yStep) * yStep
	if yMax <= yMin {
		yMax = yMin + yStep
	}

	sx := func(x float64) float64 { return round2(l.Left + x/xMax*(l.Right-l.Left)) }
	sy := func(y float64) float64 { return round2(l.Bottom - (y-yMin)/(yMax-yMin)*(l.Bottom-l.Top)) }

	for y := yMin; y <= yMax+yStep/2; y += yStep {
		l.YTicks = append(l.YTicks, Tick{Pos: sy(y), Label: core.FormatBRLWhole(y)})
	}
	xStep := math.Max(1, math.Ceil(niceStep(xMax/12)))
	for x := 0.0; x <= xMax; x += xStep {
		l.XTicks = append(l.XTicks, Tick{Pos: sx(x), Label: formatInt(x)})
	}

	for _, s := range c.Series {
		g := LineGeometry{
			Name:        s.Name,
			Color:       s.Color,
			StrokeWidth: s.StrokeWidth,
			FillOpacity: s.FillOpacity,
		}
		if s.Dashed {
			g.DashArray = "2 4"
		}
		pts := make([][2]float64, 0, len(s.Points))
		for _, p := range s.Points {
			pts = append(pts, [2]float64{sx(p.X), sy(p.Y)})
		}
		g.Points = joinCoords(pts)
		if s.Fill && len(pts) > 0 {
			base := sy(math.Max(0, yMin))
			area := make([][2]float64, 0, len(pts)+2)
			area = append(area, [2]float64{pts[0][0], base})
			area = append(area, pts...)
			area = append(area, [2]float64{pts[len(pts)-1][0], base})
			g.Area = "M" + joinCoords(area) + "Z"
		}
		if s.Markers && len(s.Points) <= maxMarkers {
			for i, p := range s.Points {
				g.Markers = append(g.Markers, Marker{
					X:     pts[i][0],
					Y:     pts[i][1],
					Title: "Mês " + formatInt(p.X) + ": " + core.FormatBRL(p.Y),
				})
			}
		}
		l.Lines = append(l.Lines, g)
	}
	return l
}

// Wedge is one pie slice in pixel space. Full is set when the slice covers
// the whole circle and must be drawn as a circle instead of an arc.
type Wedge struct {
	Label        string
	Color        string
	Path         string
	Full         bool
	ValueLabel   string
	PercentLabel string
	LabelX       float64
	LabelY       float64
}

// PieLayout is everything the pie chart template needs.
type PieLayout struct {
	Size   float64
	CX, CY float64
	R      float64
	Wedges []Wedge
}

// Layout converts slice percentages into arcs, clockwise from twelve o'clock.
func (p PieChart) Layout() PieLayout {
	r := p.Radius
	if r <= 0 {
		r = 120
	}
	l := PieLayout{Size: 2*r + 20, CX: r + 10, CY: r + 10, R: r}

	var total float64
	for _, s := range p.Slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	if total <= 0 {
		return l
	}

	angle := -math.Pi / 2
	for _, s := range p.Slices {
		if s.Value <= 0 {
			continue
		}
		frac := s.Value / total
		w := Wedge{
			Label:        s.Label,
			Color:        s.Color,
			ValueLabel:   core.FormatBRL(s.Value),
			PercentLabel: core.FormatPercent(frac * 100),
		}
		if frac >= 0.9999 {
			w.Full = true
			w.LabelX, w.LabelY = l.CX, l.CY
			l.Wedges = append(l.Wedges, w)
			angle += 2 * math.Pi * frac
			continue
		}

		end := angle + 2*math.Pi*frac
		x1, y1 := l.CX+r*math.Cos(angle), l.CY+r*math.Sin(angle)
		x2, y2 := l.CX+r*math.Cos(end), l.CY+r*math.Sin(end)
		large := "0"
		if frac > 0.5 {
			large = "1"
		}
		w.Path = "M" + fmtCoord(l.CX) + "," + fmtCoord(l.CY) +
			" L" + fmtCoord(x1) + "," + fmtCoord(y1) +
			" A" + fmtCoord(r) + "," + fmtCoord(r) + " 0 " + large + ",1 " + fmtCoord(x2) + "," + fmtCoord(y2) + " Z"

		mid := (angle + end) / 2
		w.LabelX = round2(l.CX + 0.6*r*math.Cos(mid))
		w.LabelY = round2(l.CY + 0.6*r*math.Sin(mid))
		l.Wedges = append(l.Wedges, w)
		angle = end
	}
	return l
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	f := raw / base
	switch {
	case f <= 1:
		f = 1
	case f <= 2:
		f = 2
	case f <= 5:
		f = 5
	default:
		f = 10
	}
	return f * base
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func formatInt(v float64) string {
	return strconv.FormatInt(int64(math.Round(v)), 10)
}
