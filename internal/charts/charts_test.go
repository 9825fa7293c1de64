package charts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"juros/internal/core"
)

func sampleResult(t *testing.T) core.ProjectionResult {
	t.Helper()
	res, err := core.Project(core.DefaultInput())
	require.NoError(t, err)
	return res
}

func TestNewProjectionLineChart(t *testing.T) {
	chart := NewProjectionLineChart(sampleResult(t))

	require.Len(t, chart.Series, 2)
	balance, interest := chart.Series[0], chart.Series[1]

	assert.Equal(t, "Montante", balance.Name)
	assert.Equal(t, ColorBalance, balance.Color)
	assert.True(t, balance.Markers)
	assert.Len(t, balance.Points, 13)
	assert.Equal(t, 1000.0, balance.Points[0].Y)

	assert.Equal(t, "Juros Acumulados", interest.Name)
	assert.True(t, interest.Dashed)
	assert.True(t, interest.Fill)
	assert.Equal(t, 0.0, interest.Points[0].Y)
	assert.Equal(t, "Meses", chart.XLabel)
	assert.Equal(t, "Valor (R$)", chart.YLabel)
}

func TestLineLayoutStaysInsidePlot(t *testing.T) {
	l := NewProjectionLineChart(sampleResult(t)).Layout()

	require.Len(t, l.Lines, 2)
	for _, line := range l.Lines {
		for _, m := range line.Markers {
			assert.GreaterOrEqual(t, m.X, l.Left)
			assert.LessOrEqual(t, m.X, l.Right)
			assert.GreaterOrEqual(t, m.Y, l.Top)
			assert.LessOrEqual(t, m.Y, l.Bottom)
		}
	}

	balance := l.Lines[0]
	assert.Len(t, balance.Markers, 13)
	assert.Contains(t, balance.Markers[12].Title, "Mês 12")
	assert.Len(t, strings.Fields(balance.Points), 13)
	assert.Empty(t, balance.Area)

	interest := l.Lines[1]
	assert.Equal(t, "2 4", interest.DashArray)
	assert.True(t, strings.HasPrefix(interest.Area, "M"))
	assert.True(t, strings.HasSuffix(interest.Area, "Z"))
	assert.Empty(t, interest.Markers)

	require.NotEmpty(t, l.YTicks)
	assert.Equal(t, "R$ 0", l.YTicks[0].Label)
	assert.Equal(t, l.Bottom, l.YTicks[0].Pos)
	require.NotEmpty(t, l.XTicks)
	assert.Equal(t, "0", l.XTicks[0].Label)
}

func TestLineLayoutSkipsMarkersOnLongTerms(t *testing.T) {
	res, err := core.ComputeProjection(1000, 1, 240)
	require.NoError(t, err)

	l := NewProjectionLineChart(res).Layout()
	assert.Empty(t, l.Lines[0].Markers)
	assert.LessOrEqual(t, len(l.XTicks), 13)
}

func TestPieLayout(t *testing.T) {
	pie := NewCompositionPie(sampleResult(t))
	require.Len(t, pie.Slices, 2)
	assert.Equal(t, "Valor Principal", pie.Slices[0].Label)
	assert.Equal(t, ColorPrincipal, pie.Slices[0].Color)
	assert.Equal(t, "Juros", pie.Slices[1].Label)

	l := pie.Layout()
	require.Len(t, l.Wedges, 2)
	for _, w := range l.Wedges {
		assert.False(t, w.Full)
		assert.True(t, strings.HasPrefix(w.Path, "M"))
		assert.Contains(t, w.Path, " A")
	}
	// principal is the larger share, so its arc takes the long way round
	assert.Contains(t, l.Wedges[0].Path, " 0 1,1 ")
	assert.Contains(t, l.Wedges[1].Path, " 0 0,1 ")
	assert.Equal(t, "55,68%", l.Wedges[0].PercentLabel)
}

func TestPieLayoutFullCircle(t *testing.T) {
	pie := PieChart{Slices: []Slice{{Label: "Valor Principal", Value: 100}, {Label: "Juros", Value: 0}}}
	l := pie.Layout()

	require.Len(t, l.Wedges, 1)
	assert.True(t, l.Wedges[0].Full)
	assert.Equal(t, "100,00%", l.Wedges[0].PercentLabel)
}

func TestNiceStep(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 1},
		{0.7, 1},
		{1.5, 2},
		{3, 5},
		{7, 10},
		{359, 500},
		{1200, 2000},
	}
	for _, tt := range tests {
		if got := niceStep(tt.in); got != tt.want {
			t.Errorf("niceStep(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
