package render

import (
	"errors"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ChrisMcGann/ProtStats/pkg/plot"
)

const ellipseSegments = 64

// pointStyle renders points only, without connecting lines.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func scatter(w io.Writer, fig *plot.Figure, width, height int) error {
	logY := fig.Layout.YAxis.Log
	var xr, yr extent

	var points []chart.Series
	for _, tr := range fig.Traces {
		xs, ys := traceValues(tr, logY)
		if len(xs) == 0 {
			continue
		}
		xr.add(xs...)
		yr.add(ys...)
		points = append(points, chart.ContinuousSeries{
			Name:    tr.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(hexColor(tr.Color)),
		})
	}
	if len(points) == 0 {
		return errors.New("figure has no finite points")
	}

	series := append([]chart.Series(nil), points...)
	for _, s := range fig.Shapes {
		xs, ys := ellipse(s)
		xr.add(xs...)
		yr.add(ys...)
		series = append(series, chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: 2,
				StrokeColor: withAlpha(hexColor(s.Color), math.Min(1, s.Opacity*3)),
			},
		})
	}

	yName := fig.Layout.YAxis.Title
	if logY {
		yName = "log10(" + yName + ")"
	}
	graph := chart.Chart{
		Title:  fig.Layout.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  fig.Layout.XAxis.Title,
			Range: xr.chartRange(),
		},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: yr.chartRange(),
		},
		Series: series,
	}
	if fig.Layout.ShowLegend {
		// The legend lists point series only, not the group ellipses.
		legend := graph
		legend.Series = points
		graph.Elements = []chart.Renderable{chart.Legend(&legend)}
	}

	return graph.Render(chart.PNG, w)
}

// traceValues returns the finite points of a trace, on log10 scale when logY is set.
func traceValues(tr plot.Trace, logY bool) ([]float64, []float64) {
	var xs, ys []float64
	for i, y := range tr.Y {
		x := float64(i)
		if i < len(tr.X) {
			x = tr.X[i]
		}
		if logY {
			if y <= 0 {
				continue
			}
			y = math.Log10(y)
		}
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

// ellipse traces the closed outline inscribed in the bounding box of s.
func ellipse(s plot.Shape) ([]float64, []float64) {
	cx, cy := (s.X0+s.X1)/2, (s.Y0+s.Y1)/2
	rx, ry := (s.X1-s.X0)/2, (s.Y1-s.Y0)/2
	xs := make([]float64, ellipseSegments+1)
	ys := make([]float64, ellipseSegments+1)
	for k := 0; k <= ellipseSegments; k++ {
		a := 2 * math.Pi * float64(k) / ellipseSegments
		xs[k] = cx + rx*math.Cos(a)
		ys[k] = cy + ry*math.Sin(a)
	}
	return xs, ys
}

// extent tracks the range of plotted values.
type extent struct {
	min, max float64
	set      bool
}

func (e *extent) add(values ...float64) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !e.set {
			e.min, e.max, e.set = v, v, true
			continue
		}
		e.min = math.Min(e.min, v)
		e.max = math.Max(e.max, v)
	}
}

// padded returns the range widened by 5% on each side, never empty.
func (e extent) padded() (float64, float64) {
	if !e.set {
		return 0, 1
	}
	span := e.max - e.min
	if span == 0 {
		return e.min - 1, e.max + 1
	}
	return e.min - 0.05*span, e.max + 0.05*span
}

func (e extent) chartRange() *chart.ContinuousRange {
	lo, hi := e.padded()
	return &chart.ContinuousRange{Min: lo, Max: hi}
}
